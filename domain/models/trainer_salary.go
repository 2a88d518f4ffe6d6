package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SalaryStatusPending   = "pending"
	SalaryStatusPaid      = "paid"
	SalaryStatusCancelled = "cancelled"

	ComponentAllowance = "allowance"
	ComponentDeduction = "deduction"
)

type TrainerSalary struct {
	ID              string          `gorm:"primaryKey;size:24"`
	TrainerID       string          `gorm:"size:24;not null;uniqueIndex:idx_salaries_trainer_period"`
	Month           int             `gorm:"not null;uniqueIndex:idx_salaries_trainer_period"`
	Year            int             `gorm:"not null;uniqueIndex:idx_salaries_trainer_period;index"`
	BaseSalary      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalAllowances decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	GrossSalary     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency        string          `gorm:"size:3;not null"`
	Status          string          `gorm:"size:20;not null;index"`
	PaymentDate     *time.Time
	PaymentMethod   string `gorm:"size:20"`
	TransactionRef  string `gorm:"size:100"`
	Notes           string `gorm:"type:text"`
	CreatedBy       string `gorm:"size:24"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Components []SalaryComponent `gorm:"foreignKey:SalaryID;constraint:OnDelete:CASCADE"`
}

func (TrainerSalary) TableName() string {
	return "trainer_salaries"
}

// SalaryComponent is one named allowance or deduction line.
type SalaryComponent struct {
	ID        string          `gorm:"primaryKey;size:24"`
	SalaryID  string          `gorm:"size:24;not null;index"`
	Kind      string          `gorm:"size:20;not null"` // allowance, deduction
	Name      string          `gorm:"size:100;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SortOrder int             `gorm:"not null;default:0"`
}

func (SalaryComponent) TableName() string {
	return "salary_components"
}

// Recalculate derives the totals from BaseSalary and Components.
func (s *TrainerSalary) Recalculate() {
	allowances := decimal.Zero
	deductions := decimal.Zero
	for _, c := range s.Components {
		switch c.Kind {
		case ComponentAllowance:
			allowances = allowances.Add(c.Amount)
		case ComponentDeduction:
			deductions = deductions.Add(c.Amount)
		}
	}

	s.TotalAllowances = allowances.Round(2)
	s.GrossSalary = s.BaseSalary.Add(allowances).Round(2)
	s.TotalDeductions = deductions.Round(2)
	s.NetSalary = s.GrossSalary.Sub(s.TotalDeductions).Round(2)
}
