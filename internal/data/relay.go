package data

import (
	"context"

	"github.com/eltgood/line-sheet-bridge/internal/biz/repo"
	"github.com/eltgood/line-sheet-bridge/relay"
)

// relayRepo implements the prompt-relay repository.
type relayRepo struct {
	client *relay.Client
}

// NewRelayRepo creates a relay repository. Returns nil when no client is
// configured, which disables the relay feature.
func NewRelayRepo(client *relay.Client) repo.RelayRepo {
	if client == nil {
		return nil
	}
	return &relayRepo{client: client}
}

func (r *relayRepo) Complete(ctx context.Context, prompt string) (string, error) {
	return r.client.Complete(ctx, prompt)
}
