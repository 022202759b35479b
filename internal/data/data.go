package data

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/eltgood/line-sheet-bridge/internal/biz/repo"
	"github.com/eltgood/line-sheet-bridge/relay"
	"github.com/eltgood/line-sheet-bridge/sheetstore"
)

// Repositories contains all repositories.
type Repositories struct {
	Group      repo.GroupRepo
	Rule       repo.RuleRepo
	MessageLog repo.MessageLogRepo // nil when message archiving is disabled
	Messenger  repo.MessengerRepo
	Relay      repo.RelayRepo // nil when the prompt relay is disabled
}

// NewRepositories creates all repositories. relayClient may be nil;
// messageSheet may be empty to disable message archiving.
func NewRepositories(
	store *sheetstore.Client,
	lineAPI *messaging_api.MessagingApiAPI,
	relayClient *relay.Client,
	groupSheet, ruleSheet, messageSheet string,
) *Repositories {
	return &Repositories{
		Group:      NewGroupRepo(store, groupSheet),
		Rule:       NewRuleRepo(store, ruleSheet),
		MessageLog: NewMessageLogRepo(store, messageSheet),
		Messenger:  NewLineRepo(lineAPI),
		Relay:      NewRelayRepo(relayClient),
	}
}
