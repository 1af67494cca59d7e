package repositories

import (
	"context"
)

// UnitOfWork groups repository calls into one atomic operation.
type UnitOfWork interface {
	// Do runs fn inside a transaction; repositories called with the
	// passed ctx join it.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
