package repo

import (
	"context"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
)

// MessageLogRepo archives group messages as raw rows.
type MessageLogRepo interface {
	Append(ctx context.Context, entry *domain.MessageEntry) error
}
