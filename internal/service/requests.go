package service

import (
	"tutor-desk/internal/models"

	"github.com/shopspring/decimal"
)

type CreateSubscriptionRequest struct {
	Name          string               `json:"name"`
	StudentID     int64                `json:"student_id"`
	TeacherID     int64                `json:"teacher_id"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	Description   string               `json:"description"`
	Weeks         []WeekInput          `json:"weeks"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	PaidDayIDs    []models.TempDayID   `json:"paid_day_ids"`
}

type WeekInput struct {
	WeekNumber int        `json:"week_number"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Days       []DayInput `json:"days"`
}

type DayInput struct {
	DayOfWeek *int                  `json:"day_of_week"`
	StartTime string                `json:"start_time"`
	EndTime   string                `json:"end_time"`
	Cost      models.FlexibleAmount `json:"cost"`
	Location  string                `json:"location"`
	Notes     string                `json:"notes"`
}

// RecurrenceRequest describes a flat weekly recurrence.
type RecurrenceRequest struct {
	DaysOfWeek      []int  `json:"days_of_week"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type BulkLessonRequest struct {
	RecurrenceRequest
	Cost             decimal.Decimal   `json:"cost"`
	LessonType       models.LessonType `json:"lesson_type"`
	StudentID        *int64            `json:"student_id"`
	StudentIDs       []int64           `json:"student_ids"`
	TeacherID        *int64            `json:"teacher_id"`
	Notes            string            `json:"notes"`
	MarkPaid         bool              `json:"mark_paid"`
	PrepaymentAmount *decimal.Decimal  `json:"prepayment_amount"`
}

type BulkLessonResult struct {
	Created           int              `json:"created"`
	PrepaymentBalance *decimal.Decimal `json:"prepayment_balance,omitempty"`
	Lessons           []*models.Lesson `json:"-"`
}

type PreviewResult struct {
	Total       int                 `json:"total"`
	Occurrences []models.Occurrence `json:"occurrences"`
}
