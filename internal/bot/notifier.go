package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"tutor-desk/internal/models"
	"tutor-desk/internal/service"
)

var _ service.Notifier = (*Bot)(nil)

// SubscriptionCreated tells every admin about a new subscription.
func (b *Bot) SubscriptionCreated(_ context.Context, sub *models.Subscription) {
	b.broadcast("🆕 New subscription\n\n" + formatSubscription(sub))
}

func (b *Bot) LessonsCreated(_ context.Context, result *service.BulkLessonResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %d lessons created", result.Created)
	if len(result.Lessons) > 0 {
		first := result.Lessons[0].StartsAt
		last := result.Lessons[len(result.Lessons)-1].StartsAt
		fmt.Fprintf(&sb, "\n%s - %s", first.Format("02.01.2006"), last.Format("02.01.2006"))
	}
	if result.PrepaymentBalance != nil {
		fmt.Fprintf(&sb, "\n💰 Prepayment left: %s", result.PrepaymentBalance.StringFixed(2))
	}
	b.broadcast(sb.String())
}

func (b *Bot) broadcast(text string) {
	for _, chatID := range b.adminIDs {
		b.send(chatID, text)
	}
}

var weekdayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func formatSubscription(sub *models.Subscription) string {
	paid := make(map[int64]bool, len(sub.Allocations))
	for _, a := range sub.Allocations {
		paid[a.DayRuleID] = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b> (#%d)\n", html.EscapeString(sub.Name), sub.ID)
	fmt.Fprintf(&sb, "🗓 %s - %s\n", formatDate(sub.StartDate), formatDate(sub.EndDate))
	fmt.Fprintf(&sb, "💳 %s, total %s\n", sub.PaymentStatus, sub.TotalCost.StringFixed(2))

	for _, week := range sub.Weeks {
		fmt.Fprintf(&sb, "\nWeek %d: %s - %s\n", week.WeekNumber, formatDate(week.StartDate), formatDate(week.EndDate))
		for _, day := range week.Days {
			mark := "▫️"
			if paid[day.ID] {
				mark = "✅"
			}
			fmt.Fprintf(&sb, "%s %s %s-%s, %s, %s\n",
				mark, weekdayName(day.DayOfWeek), day.StartTime, day.EndTime, day.Location, day.Cost.StringFixed(2))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func weekdayName(d int) string {
	if d < 0 || d >= len(weekdayNames) {
		return "?"
	}
	return weekdayNames[d]
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
