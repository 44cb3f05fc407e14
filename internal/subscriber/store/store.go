package store

import (
	"context"

	"curbside/internal/subscriber/models"
)

// Store is the two-index subscriber registry: every record is reachable by id
// and by normalized phone, and both indices are updated under one lock.
//
// Error Contract:
// - FindByPhone returns sentinel.ErrNotFound when no record exists
// - Other methods return nil on success or wrapped errors on failure
type Store interface {
	Save(ctx context.Context, sub *models.Subscriber) error
	FindByPhone(ctx context.Context, phone string) (*models.Subscriber, error)
	Update(ctx context.Context, sub *models.Subscriber) error
	ListActiveVerified(ctx context.Context) ([]*models.Subscriber, error)
}
