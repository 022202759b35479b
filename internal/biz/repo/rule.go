package repo

import (
	"context"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
)

// RuleRepo reads the notify-rule worksheet.
type RuleRepo interface {
	// List returns all rules in row order, disabled ones included.
	List(ctx context.Context) ([]domain.NotifyRule, error)
}
