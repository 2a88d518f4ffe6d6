package serviceimpl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
)

func (f *fixture) salaryService() services.TrainerSalaryService {
	return NewTrainerSalaryService(f.salaries, f.users, f.events)
}

func salaryRequest(trainerID string, month int) *dto.CreateTrainerSalaryRequest {
	req := &dto.CreateTrainerSalaryRequest{
		TrainerID:  trainerID,
		Month:      month,
		Year:       2026,
		BaseSalary: 1000,
		Allowances: []dto.SalaryComponentRequest{{Name: "travel", Amount: 150.25}, {Name: "bonus", Amount: 49.75}},
		Deductions: []dto.SalaryComponentRequest{{Name: "tax", Amount: 120}},
	}
	req.ApplyDefaults()
	return req
}

func TestTrainerSalaryService_CreateCalculates(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	svc := f.salaryService()

	salary, err := svc.Create(f.ctx, actorOf(admin), salaryRequest(trainer.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, "1200", salary.GrossSalary.String())
	assert.Equal(t, "120", salary.TotalDeductions.String())
	assert.Equal(t, "1080", salary.NetSalary.String())
	assert.Equal(t, models.SalaryStatusPending, salary.Status)
	assert.Equal(t, "INR", salary.Currency)
	assert.Equal(t, []string{ports.EventSalaryCreated}, f.events.types())

	_, err = svc.Create(f.ctx, actorOf(admin), salaryRequest(trainer.ID, 3))
	requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "Salary record already exists", apperr.Message(err))
}

func TestTrainerSalaryService_CreateRejects(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	student := f.user(t, models.RoleStudent, "student")
	svc := f.salaryService()

	negative := salaryRequest(trainer.ID, 1)
	negative.Deductions = []dto.SalaryComponentRequest{{Name: "advance", Amount: 5000}}
	_, err := svc.Create(f.ctx, actorOf(admin), negative)
	requireKind(t, err, apperr.KindValidation)

	_, err = svc.Create(f.ctx, actorOf(admin), salaryRequest(student.ID, 1))
	requireKind(t, err, apperr.KindValidation)
}

func TestTrainerSalaryService_BulkIsAllOrNothing(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	amy := f.user(t, models.RoleTrainer, "amy")
	bob := f.user(t, models.RoleTrainer, "bob")
	svc := f.salaryService()

	_, err := svc.Create(f.ctx, actorOf(admin), salaryRequest(bob.ID, 4))
	require.NoError(t, err)

	_, err = svc.BulkCreate(f.ctx, actorOf(admin), &dto.BulkCreateTrainerSalaryRequest{
		Salaries: []dto.CreateTrainerSalaryRequest{*salaryRequest(amy.ID, 4), *salaryRequest(bob.ID, 4)},
	})
	requireKind(t, err, apperr.KindConflict)

	query := &dto.TrainerSalaryListQuery{}
	query.ApplyDefaults()
	_, total, err := svc.List(f.ctx, actorOf(admin), query)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "failed batch must not leave records behind")

	_, err = svc.BulkCreate(f.ctx, actorOf(admin), &dto.BulkCreateTrainerSalaryRequest{
		Salaries: []dto.CreateTrainerSalaryRequest{*salaryRequest(amy.ID, 5), *salaryRequest(amy.ID, 5)},
	})
	requireKind(t, err, apperr.KindConflict)

	created, err := svc.BulkCreate(f.ctx, actorOf(admin), &dto.BulkCreateTrainerSalaryRequest{
		Salaries: []dto.CreateTrainerSalaryRequest{*salaryRequest(amy.ID, 5), *salaryRequest(bob.ID, 5)},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	_, total, err = svc.List(f.ctx, actorOf(admin), query)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestTrainerSalaryService_PaidIsFinal(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	svc := f.salaryService()

	salary, err := svc.Create(f.ctx, actorOf(admin), salaryRequest(trainer.ID, 6))
	require.NoError(t, err)

	before := time.Now()
	paid, err := svc.MarkPaid(f.ctx, actorOf(admin), salary.ID, &dto.PaySalaryRequest{PaymentMethod: "upi", TransactionRef: "UPI-1"})
	require.NoError(t, err)
	assert.Equal(t, models.SalaryStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.False(t, paid.PaymentDate.Before(before))
	assert.Equal(t, ports.EventSalaryPaid, f.events.last().Type)

	_, err = svc.MarkPaid(f.ctx, actorOf(admin), salary.ID, &dto.PaySalaryRequest{PaymentMethod: "cash"})
	requireKind(t, err, apperr.KindConflict)

	base := 2000.0
	_, err = svc.Update(f.ctx, salary.ID, &dto.UpdateTrainerSalaryRequest{BaseSalary: &base})
	requireKind(t, err, apperr.KindConflict)

	requireKind(t, svc.Delete(f.ctx, salary.ID), apperr.KindConflict)
}

func TestTrainerSalaryService_UpdateReplacesOnlySentLists(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	svc := f.salaryService()

	salary, err := svc.Create(f.ctx, actorOf(admin), salaryRequest(trainer.ID, 7))
	require.NoError(t, err)

	updated, err := svc.Update(f.ctx, salary.ID, &dto.UpdateTrainerSalaryRequest{
		Deductions: []dto.SalaryComponentRequest{},
	})
	require.NoError(t, err)
	assert.Equal(t, "1200", updated.NetSalary.String())

	stored, err := svc.GetByID(f.ctx, actorOf(admin), salary.ID)
	require.NoError(t, err)
	resp := dto.TrainerSalaryToResponse(stored)
	assert.Len(t, resp.Allowances, 2)
	assert.Empty(t, resp.Deductions)

	cancelled := models.SalaryStatusCancelled
	_, err = svc.Update(f.ctx, salary.ID, &dto.UpdateTrainerSalaryRequest{Status: &cancelled})
	require.NoError(t, err)
	_, err = svc.MarkPaid(f.ctx, actorOf(admin), salary.ID, &dto.PaySalaryRequest{PaymentMethod: "cash"})
	requireKind(t, err, apperr.KindValidation)
}

func TestTrainerSalaryService_TrainersSeeOwnRecords(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	amy := f.user(t, models.RoleTrainer, "amy")
	bob := f.user(t, models.RoleTrainer, "bob")
	svc := f.salaryService()

	amySalary, err := svc.Create(f.ctx, actorOf(admin), salaryRequest(amy.ID, 1))
	require.NoError(t, err)
	bobSalary, err := svc.Create(f.ctx, actorOf(admin), salaryRequest(bob.ID, 1))
	require.NoError(t, err)

	query := &dto.TrainerSalaryListQuery{}
	query.ApplyDefaults()
	records, total, err := svc.List(f.ctx, actorOf(amy), query)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, amySalary.ID, records[0].ID)

	_, err = svc.GetByID(f.ctx, actorOf(amy), amySalary.ID)
	require.NoError(t, err)
	_, err = svc.GetByID(f.ctx, actorOf(amy), bobSalary.ID)
	requireKind(t, err, apperr.KindForbidden)

	query.TrainerID = bob.ID
	_, _, err = svc.List(f.ctx, actorOf(amy), query)
	requireKind(t, err, apperr.KindForbidden)

	_, err = svc.Summary(f.ctx, actorOf(amy), &dto.SalarySummaryQuery{TrainerID: bob.ID})
	requireKind(t, err, apperr.KindForbidden)
}

func TestTrainerSalaryService_Summary(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	svc := f.salaryService()

	for month := 1; month <= 3; month++ {
		_, err := svc.Create(f.ctx, actorOf(admin), salaryRequest(trainer.ID, month))
		require.NoError(t, err)
	}
	query := &dto.TrainerSalaryListQuery{Month: 1}
	query.ApplyDefaults()
	first, _, err := svc.List(f.ctx, actorOf(admin), query)
	require.NoError(t, err)
	_, err = svc.MarkPaid(f.ctx, actorOf(admin), first[0].ID, &dto.PaySalaryRequest{PaymentMethod: "bank_transfer"})
	require.NoError(t, err)

	summary, err := svc.Summary(f.ctx, actorOf(trainer), &dto.SalarySummaryQuery{Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, trainer.ID, summary.TrainerID)
	assert.EqualValues(t, 3, summary.Records)
	assert.Equal(t, 3600.0, summary.TotalGross)
	assert.Equal(t, 360.0, summary.TotalDeductions)
	assert.Equal(t, 3240.0, summary.TotalNet)
	assert.Equal(t, dto.SalaryStatusTotal{Count: 1, NetSalary: 1080}, summary.ByStatus[models.SalaryStatusPaid])
	assert.Equal(t, dto.SalaryStatusTotal{Count: 2, NetSalary: 2160}, summary.ByStatus[models.SalaryStatusPending])
}

func TestTrainerSalaryService_DeletePending(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	svc := f.salaryService()

	salary, err := svc.Create(f.ctx, actorOf(admin), salaryRequest(trainer.ID, 8))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(f.ctx, salary.ID))

	_, err = svc.GetByID(f.ctx, actorOf(admin), salary.ID)
	requireKind(t, err, apperr.KindNotFound)
}
