package lifecycle

import "curbside/internal/subscriber/models"

// ReplyKind names the outbound text scenario a transition calls for. The
// composer owns the wording; the machine only decides which scenario applies.
type ReplyKind string

const (
	ReplyConfirmationRequest ReplyKind = "confirmation_request"
	ReplyWelcome             ReplyKind = "welcome"
	ReplyAlreadySubscribed   ReplyKind = "already_subscribed"
	ReplyStatus              ReplyKind = "status"
	ReplyStopAck             ReplyKind = "stop_ack"
	ReplyHelp                ReplyKind = "help"
	ReplyPendingReminder     ReplyKind = "pending_reminder"
	ReplyUnsubscribedNotice  ReplyKind = "unsubscribed_notice"
)

// Outcome is the result of one transition: the next status, the reply
// scenario, and the consent effects to apply when the status changed.
type Outcome struct {
	Next  models.Status
	Reply ReplyKind

	// Changed reports whether the subscriber record must be persisted.
	// The effect flags below only apply when Changed is true.
	Changed        bool
	Verified       bool // value Verified takes after the transition
	StampConfirmed bool // set Consent.ConfirmedAt to now
	ClearConfirmed bool // clear Consent.ConfirmedAt
	StampSubmitted bool // re-stamp Consent.SubmittedAt to now (opt-in restart)
}

// transitions is the full (status, command) table. Every reachable pair is
// present so tests can assert exhaustiveness instead of chasing branches.
var transitions = map[models.Status]map[Command]Outcome{
	models.StatusPendingConfirm: {
		CommandStop:     {Next: models.StatusUnsubscribed, Reply: ReplyStopAck, Changed: true},
		CommandHelp:     {Next: models.StatusPendingConfirm, Reply: ReplyHelp},
		CommandStart:    {Next: models.StatusPendingConfirm, Reply: ReplyPendingReminder},
		CommandYes:      {Next: models.StatusActive, Reply: ReplyWelcome, Changed: true, Verified: true, StampConfirmed: true},
		CommandStatus:   {Next: models.StatusPendingConfirm, Reply: ReplyPendingReminder},
		CommandFreeText: {Next: models.StatusPendingConfirm, Reply: ReplyPendingReminder},
	},
	models.StatusActive: {
		CommandStop:     {Next: models.StatusUnsubscribed, Reply: ReplyStopAck, Changed: true},
		CommandHelp:     {Next: models.StatusActive, Reply: ReplyHelp},
		CommandStart:    {Next: models.StatusActive, Reply: ReplyStatus},
		CommandYes:      {Next: models.StatusActive, Reply: ReplyStatus},
		CommandStatus:   {Next: models.StatusActive, Reply: ReplyStatus},
		CommandFreeText: {Next: models.StatusActive, Reply: ReplyStatus},
	},
	models.StatusUnsubscribed: {
		CommandStop:     {Next: models.StatusUnsubscribed, Reply: ReplyStopAck, Changed: true},
		CommandHelp:     {Next: models.StatusUnsubscribed, Reply: ReplyHelp},
		CommandStart:    {Next: models.StatusPendingConfirm, Reply: ReplyConfirmationRequest, Changed: true, ClearConfirmed: true, StampSubmitted: true},
		CommandYes:      {Next: models.StatusUnsubscribed, Reply: ReplyUnsubscribedNotice},
		CommandStatus:   {Next: models.StatusUnsubscribed, Reply: ReplyUnsubscribedNotice},
		CommandFreeText: {Next: models.StatusUnsubscribed, Reply: ReplyUnsubscribedNotice},
	},
}

// Transition resolves the next state and reply scenario for an inbound
// command against the subscriber's current status. Unknown statuses fall back
// to a no-op help reply rather than inventing a transition.
func Transition(current models.Status, cmd Command) Outcome {
	if row, ok := transitions[current]; ok {
		if out, ok := row[cmd]; ok {
			return out
		}
	}
	return Outcome{Next: current, Reply: ReplyHelp}
}
