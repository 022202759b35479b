package repo

import (
	"context"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
)

// GroupRepo is the group-registry repository interface.
// Rows live in the registry worksheet; reads fetch the whole table on
// every call, there is no local cache.
type GroupRepo interface {
	// List returns all registry rows in sheet order.
	List(ctx context.Context) ([]domain.GroupRecord, error)

	// Append adds a new registry row at the bottom of the table.
	Append(ctx context.Context, rec *domain.GroupRecord) error

	// SetName overwrites the name of the given row and marks it named.
	SetName(ctx context.Context, row int, name string) error

	// Delete removes the given row entirely.
	Delete(ctx context.Context, row int) error
}
