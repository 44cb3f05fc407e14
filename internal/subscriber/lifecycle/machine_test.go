package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curbside/internal/subscriber/models"
)

var allStatuses = []models.Status{
	models.StatusPendingConfirm,
	models.StatusActive,
	models.StatusUnsubscribed,
}

var allCommands = []Command{
	CommandStop,
	CommandHelp,
	CommandStart,
	CommandYes,
	CommandStatus,
	CommandFreeText,
}

// TestTransitionTableIsExhaustive walks every (status, command) pair and
// checks the outcome is well-formed: a valid next status, a reply kind, and
// effect flags only when a change is recorded.
func TestTransitionTableIsExhaustive(t *testing.T) {
	for _, status := range allStatuses {
		for _, cmd := range allCommands {
			out := Transition(status, cmd)
			assert.True(t, out.Next.IsValid(), "%s/%s produced invalid status", status, cmd)
			assert.NotEmpty(t, out.Reply, "%s/%s produced no reply kind", status, cmd)
			if !out.Changed {
				assert.Equal(t, status, out.Next, "%s/%s changed status without Changed", status, cmd)
				assert.False(t, out.StampConfirmed || out.ClearConfirmed || out.StampSubmitted,
					"%s/%s has effects without Changed", status, cmd)
			}
		}
	}
}

func TestStopUnsubscribesFromEveryState(t *testing.T) {
	for _, status := range allStatuses {
		out := Transition(status, CommandStop)
		assert.Equal(t, models.StatusUnsubscribed, out.Next, "from %s", status)
		assert.Equal(t, ReplyStopAck, out.Reply, "from %s", status)
		assert.True(t, out.Changed, "from %s", status)
		assert.False(t, out.Verified, "from %s", status)
	}
}

func TestYesConfirmsOnlyFromPending(t *testing.T) {
	out := Transition(models.StatusPendingConfirm, CommandYes)
	require.True(t, out.Changed)
	assert.Equal(t, models.StatusActive, out.Next)
	assert.Equal(t, ReplyWelcome, out.Reply)
	assert.True(t, out.Verified)
	assert.True(t, out.StampConfirmed)

	// YES from active is a no-op that reads back status.
	out = Transition(models.StatusActive, CommandYes)
	assert.False(t, out.Changed)
	assert.Equal(t, models.StatusActive, out.Next)
	assert.Equal(t, ReplyStatus, out.Reply)

	// YES from unsubscribed gets the unsubscribed notice, no transition.
	out = Transition(models.StatusUnsubscribed, CommandYes)
	assert.False(t, out.Changed)
	assert.Equal(t, ReplyUnsubscribedNotice, out.Reply)
}

func TestStartRestartsOptInFromUnsubscribed(t *testing.T) {
	out := Transition(models.StatusUnsubscribed, CommandStart)
	require.True(t, out.Changed)
	assert.Equal(t, models.StatusPendingConfirm, out.Next)
	assert.Equal(t, ReplyConfirmationRequest, out.Reply)
	assert.False(t, out.Verified)
	assert.True(t, out.ClearConfirmed)
	assert.True(t, out.StampSubmitted)

	// START elsewhere is not a transition.
	assert.False(t, Transition(models.StatusPendingConfirm, CommandStart).Changed)
	assert.False(t, Transition(models.StatusActive, CommandStart).Changed)
}

func TestHelpIsInformationalEverywhere(t *testing.T) {
	for _, status := range allStatuses {
		out := Transition(status, CommandHelp)
		assert.False(t, out.Changed, "from %s", status)
		assert.Equal(t, status, out.Next, "from %s", status)
		assert.Equal(t, ReplyHelp, out.Reply, "from %s", status)
	}
}

func TestStatusAndFreeTextReplies(t *testing.T) {
	// Pending subscribers are nudged to confirm on anything unrecognized.
	assert.Equal(t, ReplyPendingReminder, Transition(models.StatusPendingConfirm, CommandStatus).Reply)
	assert.Equal(t, ReplyPendingReminder, Transition(models.StatusPendingConfirm, CommandFreeText).Reply)

	// Active subscribers get the schedule lookup reply.
	assert.Equal(t, ReplyStatus, Transition(models.StatusActive, CommandStatus).Reply)
	assert.Equal(t, ReplyStatus, Transition(models.StatusActive, CommandFreeText).Reply)

	// Unsubscribed phones get the notice for anything but START.
	assert.Equal(t, ReplyUnsubscribedNotice, Transition(models.StatusUnsubscribed, CommandStatus).Reply)
	assert.Equal(t, ReplyUnsubscribedNotice, Transition(models.StatusUnsubscribed, CommandFreeText).Reply)
}
