// Package message composes every outbound text the service sends. All
// functions are pure and deterministic for identical inputs, which keeps them
// golden-testable. No network or storage access belongs here.
package message

import (
	"fmt"
	"strings"
	"time"

	"curbside/internal/schedule"
)

// DateLayout is how pickup dates read in outbound texts.
const DateLayout = "Monday, January 2, 2006"

// ConfirmationRequest asks a new or re-starting subscriber to opt in.
func ConfirmationRequest(address string) string {
	return fmt.Sprintf("Curbside Alerts: Reply YES to confirm pickup reminders for %s. Reply STOP to cancel, HELP for help.", address)
}

// Welcome confirms an opt-in. When the next pickup dates could be resolved,
// they ride along in the same text.
func Welcome(address, summary string) string {
	if summary == "" {
		return fmt.Sprintf("Your pickup reminders for %s are now active. Reply STOP at any time to stop.", address)
	}
	return fmt.Sprintf("Your pickup reminders for %s are now active. Your next pickup dates are %s. Reply STOP at any time to stop.", address, summary)
}

// AlreadySubscribed notices a signup for a phone that is already active.
func AlreadySubscribed(address string) string {
	return fmt.Sprintf("You're already receiving pickup reminders for %s. Reply STOP to cancel, HELP for help.", address)
}

// StatusWithDates reports the next pickup dates for an active subscriber.
func StatusWithDates(address, summary string) string {
	return fmt.Sprintf("Your next pickup dates for %s are %s. Reply STOP at any time to stop.", address, summary)
}

// StatusUndetermined reports that the feed has no confident schedule for the
// address. Distinct from a determined schedule with no upcoming match.
func StatusUndetermined(address string) string {
	return fmt.Sprintf("We couldn't determine upcoming pickup dates for %s right now. Please double-check your address or try again later. Reply STOP to stop reminders.", address)
}

// StopAck acknowledges an unsubscribe.
func StopAck() string {
	return "You have been unsubscribed from pickup reminders. Reply START to opt back in."
}

// Help lists the supported keywords.
func Help() string {
	return "Curbside Alerts: reply YES to confirm signup, STATUS for your next pickup dates, STOP to cancel, START to re-subscribe."
}

// PendingReminder nudges a pending subscriber to confirm.
func PendingReminder(address string) string {
	return fmt.Sprintf("You have a pending signup for %s. Reply YES to confirm pickup reminders or STOP to cancel.", address)
}

// UnsubscribedNotice answers anything but START from an unsubscribed phone.
func UnsubscribedNotice() string {
	return "You're unsubscribed from pickup reminders. Reply START to opt back in."
}

// LookupError is the generic fallback when the schedule feed cannot be
// reached or its response cannot be read.
func LookupError() string {
	return "Sorry, we couldn't look up your pickup info right now. Please try again later. Reply STOP to stop reminders."
}

// Reminder announces tomorrow's pickup for the matching services, garbage
// before recycling.
func Reminder(services []schedule.Service, day time.Time) string {
	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, string(svc))
	}
	return fmt.Sprintf("Reminder: %s pickup tomorrow (%s). Put carts out tonight.", strings.Join(names, " & "), day.Format(DateLayout))
}

// ScheduleSummary renders the resolved effective dates, one clause per
// service with a known date, joined with " and ". Empty when nothing parsed.
func ScheduleSummary(res schedule.Resolution) string {
	var parts []string
	for _, sr := range res.Services {
		if !sr.Known {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", sr.Service, sr.Date.Format(DateLayout)))
	}
	return strings.Join(parts, " and ")
}
