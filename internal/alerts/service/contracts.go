package service

import (
	"context"

	"curbside/internal/schedule"
	"curbside/internal/subscriber/models"
)

//go:generate mockgen -source=contracts.go -destination=mocks/mocks.go -package=mocks

// SubscriberStore is the registry the service reads and writes subscriber
// records through.
//
// Error Contract:
// - FindByPhone returns sentinel.ErrNotFound when no record exists
// - Other methods return nil on success or wrapped errors on failure
type SubscriberStore interface {
	Save(ctx context.Context, sub *models.Subscriber) error
	FindByPhone(ctx context.Context, phone string) (*models.Subscriber, error)
	Update(ctx context.Context, sub *models.Subscriber) error
	ListActiveVerified(ctx context.Context) ([]*models.Subscriber, error)
}

// ScheduleSource is the external feed returning pickup dates for an address.
type ScheduleSource interface {
	Lookup(ctx context.Context, address models.Address) (*schedule.Payload, error)
}

// MessageSender delivers one outbound text.
type MessageSender interface {
	Send(ctx context.Context, phone, text string) error
}
