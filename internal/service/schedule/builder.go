package schedule_service

import (
	"fmt"
	"strings"
	"time"

	"tutor-desk/internal/models"
	"tutor-desk/internal/service"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// BuildSubscription validates a creation request and assembles the
// subscription with its week/day tree. The first failing rule is returned;
// nothing is built partially.
func BuildSubscription(req service.CreateSubscriptionRequest) (*models.Subscription, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, service.Invalid("name", "is required")
	}
	if req.StudentID <= 0 {
		return nil, service.Invalid("student_id", "is required")
	}
	if req.TeacherID <= 0 {
		return nil, service.Invalid("teacher_id", "is required")
	}

	start, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, service.Invalid("start_date", "%v", err)
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, service.Invalid("end_date", "%v", err)
	}
	if end.Before(start) {
		return nil, service.Invalid("end_date", "cannot be before start_date")
	}

	status := req.PaymentStatus
	if status == "" {
		status = models.PaymentUnpaid
	}
	if !status.Valid() {
		return nil, service.Invalid("payment_status", "must be one of unpaid, partial, paid")
	}

	if len(req.Weeks) == 0 {
		return nil, service.Invalid("weeks", "at least one week is required")
	}

	weeks := make([]models.WeekBlock, 0, len(req.Weeks))
	for i, in := range req.Weeks {
		week, err := buildWeek(i, in, start, end)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}

	return &models.Subscription{
		Name:          name,
		StudentID:     req.StudentID,
		TeacherID:     req.TeacherID,
		StartDate:     start,
		EndDate:       end,
		TotalCost:     TotalCost(weeks),
		PaymentStatus: status,
		Description:   strings.TrimSpace(req.Description),
		Weeks:         weeks,
	}, nil
}

// TotalCost sums every day rule cost of every week.
func TotalCost(weeks []models.WeekBlock) decimal.Decimal {
	return lo.Reduce(weeks, func(total decimal.Decimal, w models.WeekBlock, _ int) decimal.Decimal {
		return lo.Reduce(w.Days, func(sum decimal.Decimal, d models.DayRule, _ int) decimal.Decimal {
			return sum.Add(d.Cost)
		}, total)
	}, decimal.Zero)
}

// buildWeek numbers weeks by position: week numbers are contiguous from 1 in
// creation order whatever the client sent.
func buildWeek(index int, in service.WeekInput, subStart, subEnd time.Time) (models.WeekBlock, error) {
	field := fmt.Sprintf("weeks[%d]", index)

	start, err := ParseDate(in.StartDate)
	if err != nil {
		return models.WeekBlock{}, service.Invalid(field+".start_date", "%v", err)
	}
	end, err := ParseDate(in.EndDate)
	if err != nil {
		return models.WeekBlock{}, service.Invalid(field+".end_date", "%v", err)
	}
	if end.Before(start) {
		return models.WeekBlock{}, service.Invalid(field+".end_date", "cannot be before start_date")
	}
	if start.Before(subStart) || end.After(subEnd) {
		return models.WeekBlock{}, service.Invalid(field, "dates must fall within the subscription period")
	}

	if len(in.Days) == 0 {
		return models.WeekBlock{}, service.Invalid(field+".days", "at least one day is required")
	}

	days := make([]models.DayRule, 0, len(in.Days))
	for j, d := range in.Days {
		day, err := buildDay(fmt.Sprintf("%s.days[%d]", field, j), d)
		if err != nil {
			return models.WeekBlock{}, err
		}
		day.WeekNumber = index + 1
		days = append(days, day)
	}

	return models.WeekBlock{
		WeekNumber: index + 1,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
	}, nil
}

func buildDay(field string, in service.DayInput) (models.DayRule, error) {
	if in.DayOfWeek == nil {
		return models.DayRule{}, service.Invalid(field+".day_of_week", "is required")
	}
	if *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
		return models.DayRule{}, service.Invalid(field+".day_of_week", "must be between 0 (Sunday) and 6 (Saturday)")
	}

	if strings.TrimSpace(in.StartTime) == "" {
		return models.DayRule{}, service.Invalid(field+".start_time", "is required")
	}
	start, err := ParseClock(in.StartTime)
	if err != nil {
		return models.DayRule{}, service.Invalid(field+".start_time", "%v", err)
	}
	if strings.TrimSpace(in.EndTime) == "" {
		return models.DayRule{}, service.Invalid(field+".end_time", "is required")
	}
	end, err := ParseClock(in.EndTime)
	if err != nil {
		return models.DayRule{}, service.Invalid(field+".end_time", "%v", err)
	}
	if end.Minutes() <= start.Minutes() {
		return models.DayRule{}, service.Invalid(field+".end_time", "must be after start_time")
	}

	// An unparsable cost counts as zero.
	cost, err := in.Cost.Decimal()
	if err != nil {
		cost = decimal.Zero
	}
	if cost.IsNegative() {
		return models.DayRule{}, service.Invalid(field+".cost", "cannot be negative")
	}

	location := models.Location(strings.ToLower(strings.TrimSpace(in.Location)))
	if location == "" {
		location = models.LocationOffice
	}
	if !location.Valid() {
		return models.DayRule{}, service.Invalid(field+".location", "must be one of office, online, home")
	}

	return models.DayRule{
		DayOfWeek: *in.DayOfWeek,
		StartTime: start.String(),
		EndTime:   end.String(),
		Cost:      cost,
		Location:  location,
		Notes:     strings.TrimSpace(in.Notes),
	}, nil
}
