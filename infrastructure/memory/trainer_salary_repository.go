package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

type salaryState struct {
	salaries map[string]models.TrainerSalary
}

type TrainerSalaryRepository struct {
	guard
	state *salaryState
}

func NewTrainerSalaryRepository() *TrainerSalaryRepository {
	return &TrainerSalaryRepository{
		guard: newGuard(),
		state: &salaryState{salaries: map[string]models.TrainerSalary{}},
	}
}

func cloneSalary(s models.TrainerSalary) *models.TrainerSalary {
	s.Components = slices.Clone(s.Components)
	if s.PaymentDate != nil {
		d := *s.PaymentDate
		s.PaymentDate = &d
	}
	return &s
}

func (r *TrainerSalaryRepository) store(salary *models.TrainerSalary) {
	for i := range salary.Components {
		c := &salary.Components[i]
		if c.ID == "" {
			c.ID = utils.NewDocumentID()
		}
		c.SalaryID = salary.ID
	}
	touch(&salary.CreatedAt, &salary.UpdatedAt)
	r.state.salaries[salary.ID] = *cloneSalary(*salary)
}

func (r *TrainerSalaryRepository) periodTaken(salary *models.TrainerSalary) bool {
	for _, s := range r.state.salaries {
		if s.ID != salary.ID && s.TrainerID == salary.TrainerID && s.Month == salary.Month && s.Year == salary.Year {
			return true
		}
	}
	return false
}

func (r *TrainerSalaryRepository) Create(ctx context.Context, salary *models.TrainerSalary) error {
	defer r.lock()()
	if _, ok := r.state.salaries[salary.ID]; ok {
		return duplicate("salary %s", salary.ID)
	}
	if r.periodTaken(salary) {
		return duplicate("salary of %s for %d/%d", salary.TrainerID, salary.Month, salary.Year)
	}
	r.store(salary)
	return nil
}

func (r *TrainerSalaryRepository) GetByID(ctx context.Context, id string) (*models.TrainerSalary, error) {
	defer r.lock()()
	s, ok := r.state.salaries[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneSalary(s), nil
}

func (r *TrainerSalaryRepository) GetByTrainerPeriod(ctx context.Context, trainerID string, month, year int) (*models.TrainerSalary, error) {
	defer r.lock()()
	for _, s := range r.state.salaries {
		if s.TrainerID == trainerID && s.Month == month && s.Year == year {
			return cloneSalary(s), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *TrainerSalaryRepository) Update(ctx context.Context, salary *models.TrainerSalary) error {
	defer r.lock()()
	if _, ok := r.state.salaries[salary.ID]; !ok {
		return repositories.ErrNotFound
	}
	if r.periodTaken(salary) {
		return duplicate("salary of %s for %d/%d", salary.TrainerID, salary.Month, salary.Year)
	}
	r.store(salary)
	return nil
}

func (r *TrainerSalaryRepository) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.state.salaries[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.state.salaries, id)
	return nil
}

func (r *TrainerSalaryRepository) List(ctx context.Context, filter repositories.TrainerSalaryFilter) ([]*models.TrainerSalary, int64, error) {
	defer r.lock()()

	var salaries []*models.TrainerSalary
	for _, s := range r.state.salaries {
		if filter.TrainerID != "" && s.TrainerID != filter.TrainerID {
			continue
		}
		if filter.Month > 0 && s.Month != filter.Month {
			continue
		}
		if filter.Year > 0 && s.Year != filter.Year {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		salaries = append(salaries, cloneSalary(s))
	}

	sortItems(salaries, filter.ListOptions, func(a, b *models.TrainerSalary) int {
		switch filter.SortBy {
		case "period":
			return cmp.Compare(a.Year*100+a.Month, b.Year*100+b.Month)
		case "netSalary":
			return a.NetSalary.Cmp(b.NetSalary)
		}
		return compareTime(a.CreatedAt, b.CreatedAt)
	}, func(s *models.TrainerSalary) string { return s.ID })

	salaries, total := page(salaries, filter.ListOptions)
	return salaries, total, nil
}

func (r *TrainerSalaryRepository) Summary(ctx context.Context, trainerID string, year int) ([]repositories.SalaryStatusAggregate, error) {
	defer r.lock()()

	byStatus := map[string]*repositories.SalaryStatusAggregate{}
	for _, s := range r.state.salaries {
		if trainerID != "" && s.TrainerID != trainerID {
			continue
		}
		if year > 0 && s.Year != year {
			continue
		}
		agg, ok := byStatus[s.Status]
		if !ok {
			agg = &repositories.SalaryStatusAggregate{
				Status:          s.Status,
				GrossSalary:     decimal.Zero,
				TotalDeductions: decimal.Zero,
				NetSalary:       decimal.Zero,
			}
			byStatus[s.Status] = agg
		}
		agg.Count++
		agg.GrossSalary = agg.GrossSalary.Add(s.GrossSalary)
		agg.TotalDeductions = agg.TotalDeductions.Add(s.TotalDeductions)
		agg.NetSalary = agg.NetSalary.Add(s.NetSalary)
	}

	rows := make([]repositories.SalaryStatusAggregate, 0, len(byStatus))
	for _, agg := range byStatus {
		rows = append(rows, *agg)
	}
	slices.SortFunc(rows, func(a, b repositories.SalaryStatusAggregate) int {
		return cmp.Compare(a.Status, b.Status)
	})
	return rows, nil
}

func (r *TrainerSalaryRepository) Transaction(ctx context.Context, fn func(tx repositories.TrainerSalaryRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := maps.Clone(r.state.salaries)
	tx := &TrainerSalaryRepository{guard: guard{mu: r.mu, inTx: true}, state: r.state}
	if err := fn(tx); err != nil {
		r.state.salaries = snapshot
		return err
	}
	return nil
}
