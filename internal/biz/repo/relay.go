package repo

import "context"

// RelayRepo forwards free-text prompts to an external completion API.
type RelayRepo interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
