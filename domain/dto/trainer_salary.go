package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/f2expert/f2expert-sub001/domain/models"
)

// === Requests ===

type SalaryComponentRequest struct {
	Name   string  `json:"name" validate:"required,max=100"`
	Amount float64 `json:"amount" validate:"min=0"`
}

type CreateTrainerSalaryRequest struct {
	TrainerID  string                   `json:"trainerId" validate:"required,objectid"`
	Month      int                      `json:"month" validate:"required,min=1,max=12"`
	Year       int                      `json:"year" validate:"required,min=2000,max=2100"`
	BaseSalary float64                  `json:"baseSalary" validate:"min=0"`
	Allowances []SalaryComponentRequest `json:"allowances" validate:"max=50,dive"`
	Deductions []SalaryComponentRequest `json:"deductions" validate:"max=50,dive"`
	Currency   string                   `json:"currency" validate:"len=3,alpha"`
	Notes      string                   `json:"notes" validate:"max=1000"`
}

func (r *CreateTrainerSalaryRequest) ApplyDefaults() {
	if r.Currency == "" {
		r.Currency = "INR"
	}
	r.Currency = strings.ToUpper(r.Currency)
}

type BulkCreateTrainerSalaryRequest struct {
	Salaries []CreateTrainerSalaryRequest `json:"salaries" validate:"required,min=1,max=100,dive"`
}

func (r *BulkCreateTrainerSalaryRequest) ApplyDefaults() {
	for i := range r.Salaries {
		r.Salaries[i].ApplyDefaults()
	}
}

// UpdateTrainerSalaryRequest replaces allowances or deductions when the
// list is present, even if empty.
type UpdateTrainerSalaryRequest struct {
	BaseSalary *float64                 `json:"baseSalary" validate:"omitempty,min=0"`
	Allowances []SalaryComponentRequest `json:"allowances" validate:"omitempty,max=50,dive"`
	Deductions []SalaryComponentRequest `json:"deductions" validate:"omitempty,max=50,dive"`
	Currency   *string                  `json:"currency" validate:"omitempty,len=3,alpha"`
	Status     *string                  `json:"status" validate:"omitempty,oneof=pending cancelled"`
	Notes      *string                  `json:"notes" validate:"omitempty,max=1000"`
}

type PaySalaryRequest struct {
	PaymentDate    *time.Time `json:"paymentDate"`
	PaymentMethod  string     `json:"paymentMethod" validate:"required,oneof=bank_transfer cash cheque upi"`
	TransactionRef string     `json:"transactionRef" validate:"max=100"`
}

type TrainerSalaryListQuery struct {
	PageQuery
	TrainerID string `query:"trainerId" json:"trainerId" validate:"omitempty,objectid"`
	Month     int    `query:"month" json:"month" validate:"omitempty,min=1,max=12"`
	Year      int    `query:"year" json:"year" validate:"omitempty,min=2000,max=2100"`
	Status    string `query:"status" json:"status" validate:"omitempty,oneof=pending paid cancelled"`
	SortBy    string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=createdAt period netSalary"`
}

func (q *TrainerSalaryListQuery) ApplyDefaults() {
	q.PageQuery.ApplyDefaults()
	if q.SortBy == "" {
		q.SortBy = "period"
	}
}

type SalarySummaryQuery struct {
	TrainerID string `query:"trainerId" json:"trainerId" validate:"omitempty,objectid"`
	Year      int    `query:"year" json:"year" validate:"omitempty,min=2000,max=2100"`
}

// === Responses ===

type SalaryComponentResponse struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type TrainerSalaryResponse struct {
	ID              string                    `json:"id"`
	TrainerID       string                    `json:"trainerId"`
	Month           int                       `json:"month"`
	Year            int                       `json:"year"`
	BaseSalary      float64                   `json:"baseSalary"`
	Allowances      []SalaryComponentResponse `json:"allowances"`
	Deductions      []SalaryComponentResponse `json:"deductions"`
	TotalAllowances float64                   `json:"totalAllowances"`
	GrossSalary     float64                   `json:"grossSalary"`
	TotalDeductions float64                   `json:"totalDeductions"`
	NetSalary       float64                   `json:"netSalary"`
	Currency        string                    `json:"currency"`
	Status          string                    `json:"status"`
	PaymentDate     *time.Time                `json:"paymentDate"`
	PaymentMethod   string                    `json:"paymentMethod,omitempty"`
	TransactionRef  string                    `json:"transactionRef,omitempty"`
	Notes           string                    `json:"notes,omitempty"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

type SalaryStatusTotal struct {
	Count     int64   `json:"count"`
	NetSalary float64 `json:"netSalary"`
}

type SalarySummaryResponse struct {
	TrainerID       string                       `json:"trainerId,omitempty"`
	Year            int                          `json:"year,omitempty"`
	Records         int64                        `json:"records"`
	TotalGross      float64                      `json:"totalGross"`
	TotalDeductions float64                      `json:"totalDeductions"`
	TotalNet        float64                      `json:"totalNet"`
	ByStatus        map[string]SalaryStatusTotal `json:"byStatus"`
}

// === Mappers ===

// ComponentsFromRequest turns request lines into salary components of kind.
func ComponentsFromRequest(kind string, lines []SalaryComponentRequest, offset int) []models.SalaryComponent {
	out := make([]models.SalaryComponent, 0, len(lines))
	for i, l := range lines {
		out = append(out, models.SalaryComponent{
			Kind:      kind,
			Name:      strings.TrimSpace(l.Name),
			Amount:    decimal.NewFromFloat(l.Amount).Round(2),
			SortOrder: offset + i,
		})
	}
	return out
}

func CreateTrainerSalaryRequestToModel(req *CreateTrainerSalaryRequest) *models.TrainerSalary {
	s := &models.TrainerSalary{
		TrainerID:  req.TrainerID,
		Month:      req.Month,
		Year:       req.Year,
		BaseSalary: decimal.NewFromFloat(req.BaseSalary).Round(2),
		Currency:   req.Currency,
		Status:     models.SalaryStatusPending,
		Notes:      req.Notes,
	}
	s.Components = append(
		ComponentsFromRequest(models.ComponentAllowance, req.Allowances, 0),
		ComponentsFromRequest(models.ComponentDeduction, req.Deductions, len(req.Allowances))...,
	)
	s.Recalculate()
	return s
}

func TrainerSalaryToResponse(s *models.TrainerSalary) *TrainerSalaryResponse {
	if s == nil {
		return nil
	}
	resp := &TrainerSalaryResponse{
		ID:              s.ID,
		TrainerID:       s.TrainerID,
		Month:           s.Month,
		Year:            s.Year,
		BaseSalary:      s.BaseSalary.InexactFloat64(),
		Allowances:      []SalaryComponentResponse{},
		Deductions:      []SalaryComponentResponse{},
		TotalAllowances: s.TotalAllowances.InexactFloat64(),
		GrossSalary:     s.GrossSalary.InexactFloat64(),
		TotalDeductions: s.TotalDeductions.InexactFloat64(),
		NetSalary:       s.NetSalary.InexactFloat64(),
		Currency:        s.Currency,
		Status:          s.Status,
		PaymentDate:     s.PaymentDate,
		PaymentMethod:   s.PaymentMethod,
		TransactionRef:  s.TransactionRef,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	for _, c := range s.Components {
		line := SalaryComponentResponse{Name: c.Name, Amount: c.Amount.InexactFloat64()}
		if c.Kind == models.ComponentDeduction {
			resp.Deductions = append(resp.Deductions, line)
		} else {
			resp.Allowances = append(resp.Allowances, line)
		}
	}
	return resp
}

func TrainerSalariesToResponses(salaries []*models.TrainerSalary) []*TrainerSalaryResponse {
	out := make([]*TrainerSalaryResponse, 0, len(salaries))
	for _, s := range salaries {
		out = append(out, TrainerSalaryToResponse(s))
	}
	return out
}
