package dto

import (
	"time"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// === Requests ===

type CreateScheduleClassRequest struct {
	CourseID    string `json:"courseId" validate:"required,objectid"`
	TrainerID   string `json:"trainerId" validate:"required,objectid"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ClassDate   string `json:"classDate" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,hhmm"`
	EndTime     string `json:"endTime" validate:"required,hhmm"`
	Mode        string `json:"mode" validate:"required,oneof=online offline"`
	MeetingLink string `json:"meetingLink" validate:"omitempty,url,max=500"`
	Location    string `json:"location" validate:"max=255"`
	Capacity    int    `json:"capacity" validate:"required,min=1,max=500"`
}

func (r *CreateScheduleClassRequest) Validate() error {
	return checkClassShape(r.StartTime, r.EndTime, r.Mode, r.MeetingLink, r.Location)
}

type UpdateScheduleClassRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	TrainerID   *string `json:"trainerId" validate:"omitempty,objectid"`
	ClassDate   *string `json:"classDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"startTime" validate:"omitempty,hhmm"`
	EndTime     *string `json:"endTime" validate:"omitempty,hhmm"`
	Mode        *string `json:"mode" validate:"omitempty,oneof=online offline"`
	MeetingLink *string `json:"meetingLink" validate:"omitempty,url,max=500"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Capacity    *int    `json:"capacity" validate:"omitempty,min=1,max=500"`
}

type CancelClassRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// EnrollRequest names the student to enroll. Students leave it empty to
// enroll themselves.
type EnrollRequest struct {
	StudentID string `json:"studentId" validate:"omitempty,objectid"`
}

type ScheduleClassListQuery struct {
	PageQuery
	CourseID  string `query:"courseId" json:"courseId" validate:"omitempty,objectid"`
	TrainerID string `query:"trainerId" json:"trainerId" validate:"omitempty,objectid"`
	Status    string `query:"status" json:"status" validate:"omitempty,oneof=scheduled cancelled completed"`
	Mode      string `query:"mode" json:"mode" validate:"omitempty,oneof=online offline"`
	From      string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	SortBy    string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=startsAt createdAt title"`
}

func (q *ScheduleClassListQuery) ApplyDefaults() {
	if q.SortOrder == "" {
		q.SortOrder = "asc"
	}
	q.PageQuery.ApplyDefaults()
	if q.SortBy == "" {
		q.SortBy = "startsAt"
	}
}

func (q *ScheduleClassListQuery) Validate() error {
	if q.From != "" && q.To != "" && q.To < q.From {
		return apperr.Validation("to must not be before from")
	}
	return nil
}

// checkClassShape holds the rules that span several class fields.
func checkClassShape(startTime, endTime, mode, meetingLink, location string) error {
	if endTime <= startTime {
		return apperr.Validation("endTime must be after startTime")
	}
	switch mode {
	case models.ClassModeOnline:
		if meetingLink == "" {
			return apperr.Validation("meetingLink is required for online classes")
		}
	case models.ClassModeOffline:
		if location == "" {
			return apperr.Validation("location is required for offline classes")
		}
	}
	return nil
}

// CheckClassShape re-applies the cross-field rules to a merged update.
func CheckClassShape(c *models.ScheduleClass, loc *time.Location) error {
	start := c.StartsAt.In(loc).Format(TimeLayout)
	end := c.EndsAt.In(loc).Format(TimeLayout)
	return checkClassShape(start, end, c.Mode, c.MeetingLink, c.Location)
}

// === Responses ===

type ScheduleClassResponse struct {
	ID             string    `json:"id"`
	CourseID       string    `json:"courseId"`
	TrainerID      string    `json:"trainerId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ClassDate      string    `json:"classDate"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt"`
	Mode           string    `json:"mode"`
	MeetingLink    string    `json:"meetingLink,omitempty"`
	Location       string    `json:"location,omitempty"`
	Capacity       int       `json:"capacity"`
	AvailableSeats int       `json:"availableSeats"`
	EnrolledCount  int       `json:"enrolledCount"`
	WaitlistCount  int       `json:"waitlistCount"`
	Status         string    `json:"status"`
	CancelReason   string    `json:"cancelReason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type EnrollmentResponse struct {
	ClassID        string `json:"classId"`
	StudentID      string `json:"studentId"`
	Status         string `json:"status"`
	Position       int    `json:"position,omitempty"`
	AvailableSeats int    `json:"availableSeats"`
}

type ClassStudentResponse struct {
	StudentID  string    `json:"studentId"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	Position   int       `json:"position,omitempty"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

type ClassStudentsResponse struct {
	ClassID    string                  `json:"classId"`
	Enrolled   []*ClassStudentResponse `json:"enrolled"`
	Waitlisted []*ClassStudentResponse `json:"waitlisted"`
}

// === Mappers ===

func ScheduleClassToResponse(c *models.ScheduleClass, loc *time.Location) *ScheduleClassResponse {
	if c == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	resp := &ScheduleClassResponse{
		ID:             c.ID,
		CourseID:       c.CourseID,
		TrainerID:      c.TrainerID,
		Title:          c.Title,
		Description:    c.Description,
		ClassDate:      c.StartsAt.In(loc).Format(DateLayout),
		StartTime:      c.StartsAt.In(loc).Format(TimeLayout),
		EndTime:        c.EndsAt.In(loc).Format(TimeLayout),
		StartsAt:       c.StartsAt,
		EndsAt:         c.EndsAt,
		Mode:           c.Mode,
		MeetingLink:    c.MeetingLink,
		Location:       c.Location,
		Capacity:       c.Capacity,
		AvailableSeats: c.AvailableSeats,
		Status:         c.Status,
		CancelReason:   c.CancelReason,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	for _, e := range c.Enrollments {
		switch e.Status {
		case models.EnrollmentEnrolled:
			resp.EnrolledCount++
		case models.EnrollmentWaitlisted:
			resp.WaitlistCount++
		}
	}
	return resp
}

func ScheduleClassesToResponses(classes []*models.ScheduleClass, loc *time.Location) []*ScheduleClassResponse {
	out := make([]*ScheduleClassResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, ScheduleClassToResponse(c, loc))
	}
	return out
}
