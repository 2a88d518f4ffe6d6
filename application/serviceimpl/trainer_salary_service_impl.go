package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const (
	msgSalaryNotFound = "Salary record not found"
	msgSalaryExists   = "Salary record already exists"
)

type TrainerSalaryServiceImpl struct {
	salaryRepo repositories.TrainerSalaryRepository
	userRepo   repositories.UserRepository
	events     ports.EventPublisher
}

func NewTrainerSalaryService(salaryRepo repositories.TrainerSalaryRepository, userRepo repositories.UserRepository, events ports.EventPublisher) services.TrainerSalaryService {
	return &TrainerSalaryServiceImpl{
		salaryRepo: salaryRepo,
		userRepo:   userRepo,
		events:     events,
	}
}

func checkNet(salary *models.TrainerSalary) error {
	if salary.NetSalary.IsNegative() {
		return apperr.Validation("Net salary cannot be negative")
	}
	return nil
}

func periodLabel(s *models.TrainerSalary) string {
	return fmt.Sprintf("%s for %02d/%d", s.TrainerID, s.Month, s.Year)
}

// build validates one create request and turns it into a salary ready to store.
func (s *TrainerSalaryServiceImpl) build(ctx context.Context, actor services.Actor, req *dto.CreateTrainerSalaryRequest) (*models.TrainerSalary, error) {
	if err := requireTrainer(ctx, s.userRepo, req.TrainerID); err != nil {
		return nil, err
	}
	salary := dto.CreateTrainerSalaryRequestToModel(req)
	if err := checkNet(salary); err != nil {
		return nil, err
	}
	salary.ID = utils.NewDocumentID()
	salary.CreatedBy = actor.UserID
	return salary, nil
}

// insert stores salary unless its trainer already has a record for the period.
func insert(ctx context.Context, repo repositories.TrainerSalaryRepository, salary *models.TrainerSalary) error {
	if _, err := repo.GetByTrainerPeriod(ctx, salary.TrainerID, salary.Month, salary.Year); err == nil {
		return apperr.Conflict(msgSalaryExists)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return conflict(repo.Create(ctx, salary), msgSalaryExists)
}

func (s *TrainerSalaryServiceImpl) Create(ctx context.Context, actor services.Actor, req *dto.CreateTrainerSalaryRequest) (*models.TrainerSalary, error) {
	salary, err := s.build(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	if err := insert(ctx, s.salaryRepo, salary); err != nil {
		logger.WarnContext(ctx, "Salary record rejected", "period", periodLabel(salary), "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Salary record created", "salary_id", salary.ID, "period", periodLabel(salary), "net", salary.NetSalary.String())
	s.publishSalary(ctx, ports.EventSalaryCreated, actor, salary)
	return salary, nil
}

func (s *TrainerSalaryServiceImpl) BulkCreate(ctx context.Context, actor services.Actor, req *dto.BulkCreateTrainerSalaryRequest) ([]*models.TrainerSalary, error) {
	salaries := make([]*models.TrainerSalary, 0, len(req.Salaries))
	seen := make(map[string]bool, len(req.Salaries))
	for i := range req.Salaries {
		salary, err := s.build(ctx, actor, &req.Salaries[i])
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindOf(err), fmt.Sprintf("salaries[%d]: %s", i, apperr.Message(err)))
		}
		key := periodLabel(salary)
		if seen[key] {
			return nil, apperr.Conflict(fmt.Sprintf("%s: %s appears twice", msgSalaryExists, key))
		}
		seen[key] = true
		salaries = append(salaries, salary)
	}

	err := s.salaryRepo.Transaction(ctx, func(tx repositories.TrainerSalaryRepository) error {
		for _, salary := range salaries {
			if err := insert(ctx, tx, salary); err != nil {
				if apperr.Is(err, apperr.KindConflict) {
					return apperr.Conflict(fmt.Sprintf("%s: %s", msgSalaryExists, periodLabel(salary)))
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.WarnContext(ctx, "Bulk salary creation rolled back", "count", len(salaries), "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Salary records created", "count", len(salaries))
	for _, salary := range salaries {
		s.publishSalary(ctx, ports.EventSalaryCreated, actor, salary)
	}
	return salaries, nil
}

// canRead lets admins see every record and trainers only their own.
func canRead(actor services.Actor, salary *models.TrainerSalary) bool {
	return actor.IsAdmin() || (actor.IsTrainer() && salary.TrainerID == actor.UserID)
}

func (s *TrainerSalaryServiceImpl) GetByID(ctx context.Context, actor services.Actor, id string) (*models.TrainerSalary, error) {
	salary, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgSalaryNotFound)
	}
	if !canRead(actor, salary) {
		return nil, apperr.Forbidden("You can only view your own salary records")
	}
	return salary, nil
}

// scopeTrainer returns the trainer a read is limited to.
func scopeTrainer(actor services.Actor, requested string) (string, error) {
	switch {
	case actor.IsAdmin():
		return requested, nil
	case actor.IsTrainer():
		if requested != "" && requested != actor.UserID {
			return "", apperr.Forbidden("You can only view your own salary records")
		}
		return actor.UserID, nil
	}
	return "", apperr.Forbidden("Insufficient permissions")
}

func (s *TrainerSalaryServiceImpl) List(ctx context.Context, actor services.Actor, query *dto.TrainerSalaryListQuery) ([]*models.TrainerSalary, int64, error) {
	trainerID, err := scopeTrainer(actor, query.TrainerID)
	if err != nil {
		return nil, 0, err
	}
	return s.salaryRepo.List(ctx, repositories.TrainerSalaryFilter{
		TrainerID: trainerID,
		Month:     query.Month,
		Year:      query.Year,
		Status:    query.Status,
		ListOptions: repositories.ListOptions{
			Offset: query.Offset(),
			Limit:  query.Limit,
			SortBy: query.SortBy,
			Desc:   query.Desc(),
		},
	})
}

func (s *TrainerSalaryServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateTrainerSalaryRequest) (*models.TrainerSalary, error) {
	salary, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgSalaryNotFound)
	}
	if salary.Status == models.SalaryStatusPaid {
		return nil, apperr.Conflict("Paid salary records cannot be modified")
	}

	if req.BaseSalary != nil {
		salary.BaseSalary = decimal.NewFromFloat(*req.BaseSalary).Round(2)
	}
	if req.Allowances != nil || req.Deductions != nil {
		salary.Components = replaceComponents(salary.Components, req.Allowances, req.Deductions)
	}
	if req.Currency != nil {
		salary.Currency = *req.Currency
	}
	if req.Status != nil {
		salary.Status = *req.Status
	}
	if req.Notes != nil {
		salary.Notes = *req.Notes
	}

	salary.Recalculate()
	if err := checkNet(salary); err != nil {
		return nil, err
	}
	if err := s.salaryRepo.Update(ctx, salary); err != nil {
		logger.ErrorContext(ctx, "Failed to update salary record", "salary_id", id, "error", err)
		return nil, notFound(err, msgSalaryNotFound)
	}

	logger.InfoContext(ctx, "Salary record updated", "salary_id", id, "net", salary.NetSalary.String())
	return salary, nil
}

// replaceComponents swaps in the lists that were sent and keeps the rest.
// Allowances sort before deductions.
func replaceComponents(current []models.SalaryComponent, allowances, deductions []dto.SalaryComponentRequest) []models.SalaryComponent {
	var keptAllowances, keptDeductions []models.SalaryComponent
	for _, c := range current {
		c.ID = ""
		if c.Kind == models.ComponentDeduction {
			keptDeductions = append(keptDeductions, c)
		} else {
			keptAllowances = append(keptAllowances, c)
		}
	}
	if allowances != nil {
		keptAllowances = dto.ComponentsFromRequest(models.ComponentAllowance, allowances, 0)
	}
	if deductions != nil {
		keptDeductions = dto.ComponentsFromRequest(models.ComponentDeduction, deductions, 0)
	}

	out := append(keptAllowances, keptDeductions...)
	for i := range out {
		out[i].SortOrder = i
	}
	return out
}

func (s *TrainerSalaryServiceImpl) MarkPaid(ctx context.Context, actor services.Actor, id string, req *dto.PaySalaryRequest) (*models.TrainerSalary, error) {
	salary, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgSalaryNotFound)
	}
	switch salary.Status {
	case models.SalaryStatusPaid:
		return nil, apperr.Conflict("Salary already paid")
	case models.SalaryStatusCancelled:
		return nil, apperr.Validation("Cancelled salary records cannot be paid")
	}

	paidAt := time.Now()
	if req.PaymentDate != nil {
		paidAt = *req.PaymentDate
	}
	salary.Status = models.SalaryStatusPaid
	salary.PaymentDate = &paidAt
	salary.PaymentMethod = req.PaymentMethod
	salary.TransactionRef = req.TransactionRef

	if err := s.salaryRepo.Update(ctx, salary); err != nil {
		logger.ErrorContext(ctx, "Failed to mark salary paid", "salary_id", id, "error", err)
		return nil, notFound(err, msgSalaryNotFound)
	}

	logger.InfoContext(ctx, "Salary paid", "salary_id", id, "method", salary.PaymentMethod, "net", salary.NetSalary.String())
	s.publishSalary(ctx, ports.EventSalaryPaid, actor, salary)
	return salary, nil
}

func (s *TrainerSalaryServiceImpl) Delete(ctx context.Context, id string) error {
	salary, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, msgSalaryNotFound)
	}
	if salary.Status != models.SalaryStatusPending {
		return apperr.Conflict("Only pending salary records can be deleted")
	}
	if err := s.salaryRepo.Delete(ctx, id); err != nil {
		return notFound(err, msgSalaryNotFound)
	}

	logger.InfoContext(ctx, "Salary record deleted", "salary_id", id)
	return nil
}

func (s *TrainerSalaryServiceImpl) Summary(ctx context.Context, actor services.Actor, query *dto.SalarySummaryQuery) (*dto.SalarySummaryResponse, error) {
	trainerID, err := scopeTrainer(actor, query.TrainerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.salaryRepo.Summary(ctx, trainerID, query.Year)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to summarize salaries", "error", err)
		return nil, err
	}

	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	resp := &dto.SalarySummaryResponse{
		TrainerID: trainerID,
		Year:      query.Year,
		ByStatus:  make(map[string]dto.SalaryStatusTotal, len(rows)),
	}
	for _, row := range rows {
		resp.Records += row.Count
		gross = gross.Add(row.GrossSalary)
		deductions = deductions.Add(row.TotalDeductions)
		net = net.Add(row.NetSalary)
		resp.ByStatus[row.Status] = dto.SalaryStatusTotal{
			Count:     row.Count,
			NetSalary: row.NetSalary.InexactFloat64(),
		}
	}
	resp.TotalGross = gross.InexactFloat64()
	resp.TotalDeductions = deductions.InexactFloat64()
	resp.TotalNet = net.InexactFloat64()
	return resp, nil
}

func (s *TrainerSalaryServiceImpl) publishSalary(ctx context.Context, eventType string, actor services.Actor, salary *models.TrainerSalary) {
	publish(ctx, s.events, ports.DomainEvent{
		Type:     eventType,
		EntityID: salary.ID,
		ActorID:  actor.UserID,
		Data: map[string]any{
			"trainerId": salary.TrainerID,
			"month":     salary.Month,
			"year":      salary.Year,
			"netSalary": salary.NetSalary.String(),
			"status":    salary.Status,
		},
	})
}
