package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"curbside/internal/schedule"
)

const addr = "1403 E POTTER AV"

func jan(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

// Golden outputs: the composer is pure, so exact wording is asserted. Any
// intentional copy change must update these in the same commit.
func TestGoldenTexts(t *testing.T) {
	assert.Equal(t,
		"Curbside Alerts: Reply YES to confirm pickup reminders for 1403 E POTTER AV. Reply STOP to cancel, HELP for help.",
		ConfirmationRequest(addr))

	assert.Equal(t,
		"Your pickup reminders for 1403 E POTTER AV are now active. Reply STOP at any time to stop.",
		Welcome(addr, ""))

	assert.Equal(t,
		"Your pickup reminders for 1403 E POTTER AV are now active. Your next pickup dates are garbage: Friday, January 2, 2026. Reply STOP at any time to stop.",
		Welcome(addr, "garbage: Friday, January 2, 2026"))

	assert.Equal(t,
		"You're already receiving pickup reminders for 1403 E POTTER AV. Reply STOP to cancel, HELP for help.",
		AlreadySubscribed(addr))

	assert.Equal(t,
		"Your next pickup dates for 1403 E POTTER AV are garbage: Friday, January 2, 2026 and recycling: Monday, January 12, 2026. Reply STOP at any time to stop.",
		StatusWithDates(addr, "garbage: Friday, January 2, 2026 and recycling: Monday, January 12, 2026"))

	assert.Equal(t,
		"We couldn't determine upcoming pickup dates for 1403 E POTTER AV right now. Please double-check your address or try again later. Reply STOP to stop reminders.",
		StatusUndetermined(addr))

	assert.Equal(t,
		"You have been unsubscribed from pickup reminders. Reply START to opt back in.",
		StopAck())

	assert.Equal(t,
		"Curbside Alerts: reply YES to confirm signup, STATUS for your next pickup dates, STOP to cancel, START to re-subscribe.",
		Help())

	assert.Equal(t,
		"You have a pending signup for 1403 E POTTER AV. Reply YES to confirm pickup reminders or STOP to cancel.",
		PendingReminder(addr))

	assert.Equal(t,
		"You're unsubscribed from pickup reminders. Reply START to opt back in.",
		UnsubscribedNotice())

	assert.Equal(t,
		"Sorry, we couldn't look up your pickup info right now. Please try again later. Reply STOP to stop reminders.",
		LookupError())
}

func TestConfirmationRequestNamesBothKeywords(t *testing.T) {
	text := ConfirmationRequest(addr)
	assert.Contains(t, text, "YES")
	assert.Contains(t, text, "STOP")
}

func TestReminderOrdersGarbageFirst(t *testing.T) {
	assert.Equal(t,
		"Reminder: garbage & recycling pickup tomorrow (Friday, January 2, 2026). Put carts out tonight.",
		Reminder([]schedule.Service{schedule.ServiceGarbage, schedule.ServiceRecycling}, jan(2)))

	assert.Equal(t,
		"Reminder: recycling pickup tomorrow (Friday, January 2, 2026). Put carts out tonight.",
		Reminder([]schedule.Service{schedule.ServiceRecycling}, jan(2)))
}

func TestScheduleSummary(t *testing.T) {
	res := schedule.Resolution{
		Determined: true,
		Services: []schedule.ServiceResolution{
			{Service: schedule.ServiceGarbage, Date: jan(2), Known: true},
			{Service: schedule.ServiceRecycling, Date: jan(12), Known: true},
		},
	}
	assert.Equal(t, "garbage: Friday, January 2, 2026 and recycling: Monday, January 12, 2026", ScheduleSummary(res))

	// Unknown dates are left out rather than rendered as zeros.
	res.Services[1].Known = false
	assert.Equal(t, "garbage: Friday, January 2, 2026", ScheduleSummary(res))

	res.Services[0].Known = false
	assert.Empty(t, ScheduleSummary(res))
}

func TestComposerIsDeterministic(t *testing.T) {
	assert.Equal(t, ConfirmationRequest(addr), ConfirmationRequest(addr))
	assert.Equal(t, StatusUndetermined(addr), StatusUndetermined(addr))
}
