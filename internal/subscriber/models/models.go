package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "curbside/pkg/domain-errors"
)

// Address holds the normalized postal components the city feed is keyed by.
// Direction, name, type, and the full formatted address are stored upper-cased
// and trimmed; the house number is trimmed only. Immutable once attached to a
// Subscriber except on re-signup.
type Address struct {
	HouseNumber     string
	StreetDirection string
	StreetName      string
	StreetType      string
	FullAddress     string
}

// NewAddress normalizes and validates the postal components. The street
// direction is optional; everything else is required.
func NewAddress(houseNumber, direction, name, streetType, full string) (Address, error) {
	houseNumber = strings.TrimSpace(houseNumber)
	direction = strings.ToUpper(strings.TrimSpace(direction))
	name = strings.ToUpper(strings.TrimSpace(name))
	streetType = strings.ToUpper(strings.TrimSpace(streetType))
	full = strings.ToUpper(strings.TrimSpace(full))

	if houseNumber == "" || name == "" || streetType == "" || full == "" {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "missing required address fields")
	}

	return Address{
		HouseNumber:     houseNumber,
		StreetDirection: direction,
		StreetName:      name,
		StreetType:      streetType,
		FullAddress:     full,
	}, nil
}

// Status is the consent lifecycle state of a subscriber.
type Status string

const (
	StatusPendingConfirm Status = "pending_confirm"
	StatusActive         Status = "active"
	StatusUnsubscribed   Status = "unsubscribed"
)

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return s == StatusPendingConfirm || s == StatusActive || s == StatusUnsubscribed
}

// Consent captures the opt-in artifacts collected at signup and confirmation.
type Consent struct {
	Checked     bool
	SourceURL   string
	SubmittedAt time.Time
	ConfirmedAt *time.Time
}

// Subscriber is a phone number enrolled (or attempting to enroll) in pickup
// reminders. Exactly one Subscriber exists per normalized phone; re-signup
// mutates the existing record. Unsubscribe is a status change, never a delete.
type Subscriber struct {
	ID        string
	Phone     string
	Address   Address
	Status    Status
	Verified  bool
	Consent   Consent
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubscriber creates a pending subscriber awaiting keyword confirmation.
func NewSubscriber(phone string, address Address, consent Consent, now time.Time) *Subscriber {
	return &Subscriber{
		ID:        fmt.Sprintf("sub_%s", uuid.New().String()),
		Phone:     phone,
		Address:   address,
		Status:    StatusPendingConfirm,
		Verified:  false,
		Consent:   consent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the subscriber should receive reminders.
func (s *Subscriber) IsActive() bool {
	return s.Status == StatusActive && s.Verified
}

// NormalizePhone reduces a raw phone string to the canonical dialable form:
// digits only, with a leading US country code. Ten-digit national numbers get
// a "1" prefix; anything shorter than ten digits normalizes to empty.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case len(digits) == 10:
		return "1" + digits
	case len(digits) >= 11:
		return digits
	default:
		return ""
	}
}
