package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
	"github.com/eltgood/line-sheet-bridge/internal/biz/repo"
	"github.com/eltgood/line-sheet-bridge/internal/biz/usecase"
)

const (
	nameCommand = "/命名"

	joinReply          = "✅ 已加入群組，請輸入 /命名 店名"
	nameUsageReply     = "⚠️ 格式：/命名 店名"
	namePromptReply    = "請先輸入 /命名 店名 來命名這個群組！"
	relayFallbackReply = "抱歉，我現在無法回應，請稍後再試 🙏"
)

// EventService routes decoded webhook events to their handlers. One
// failing event never aborts the rest of the batch: the platform
// expects a prompt acknowledgement regardless of per-event outcome.
type EventService struct {
	registry   *usecase.RegistryUsecase
	messenger  repo.MessengerRepo
	relay      repo.RelayRepo      // nil disables the mention relay
	messageLog repo.MessageLogRepo // nil disables message archiving
	botName    string
	logger     *slog.Logger
}

// NewEventService creates the event dispatcher.
func NewEventService(
	registry *usecase.RegistryUsecase,
	messenger repo.MessengerRepo,
	relayRepo repo.RelayRepo,
	messageLog repo.MessageLogRepo,
	botName string,
	logger *slog.Logger,
) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{
		registry:   registry,
		messenger:  messenger,
		relay:      relayRepo,
		messageLog: messageLog,
		botName:    botName,
		logger:     logger,
	}
}

// HandleEvents processes a webhook batch in delivery order. Handler
// failures are logged and the next event proceeds.
func (s *EventService) HandleEvents(ctx context.Context, events []domain.Event) {
	for i := range events {
		ev := &events[i]
		if err := s.handleEvent(ctx, ev); err != nil {
			s.logger.Error("event handler failed",
				"kind", ev.Kind,
				"group_id", ev.GroupID,
				"error", err)
		}
	}
}

func (s *EventService) handleEvent(ctx context.Context, ev *domain.Event) error {
	switch ev.Kind {
	case domain.EventJoin:
		return s.handleJoin(ctx, ev)
	case domain.EventLeave:
		return s.handleLeave(ctx, ev)
	case domain.EventMessage:
		return s.handleMessage(ctx, ev)
	default:
		s.logger.Debug("ignoring event", "kind", ev.Kind)
		return nil
	}
}

func (s *EventService) handleJoin(ctx context.Context, ev *domain.Event) error {
	if !ev.FromGroup() {
		return nil
	}

	created, err := s.registry.EnsureGroup(ctx, ev.GroupID)
	if err != nil {
		return err
	}
	s.logger.Info("group joined", "group_id", ev.GroupID, "created", created)

	return s.reply(ctx, ev, joinReply)
}

// handleLeave removes the registry row. The reply channel is gone by the
// time a leave event arrives, so the side effect is log-only.
func (s *EventService) handleLeave(ctx context.Context, ev *domain.Event) error {
	if !ev.FromGroup() {
		return nil
	}

	removed, err := s.registry.DeleteGroup(ctx, ev.GroupID)
	if err != nil {
		return err
	}
	s.logger.Info("group left", "group_id", ev.GroupID, "removed", removed)
	return nil
}

func (s *EventService) handleMessage(ctx context.Context, ev *domain.Event) error {
	// Direct messages and non-text content are out of scope.
	if !ev.FromGroup() || ev.Text == "" {
		return nil
	}

	s.archiveMessage(ctx, ev)

	text := strings.TrimSpace(ev.Text)
	if strings.HasPrefix(text, nameCommand) {
		return s.handleNameCommand(ctx, ev, text)
	}

	if s.relay != nil && s.botName != "" && strings.Contains(text, "@"+s.botName) {
		return s.handleMention(ctx, ev, text)
	}

	named, err := s.registry.IsNamed(ctx, ev.GroupID)
	if err != nil {
		return err
	}
	if !named {
		return s.reply(ctx, ev, namePromptReply)
	}

	// Named groups are left alone.
	return nil
}

func (s *EventService) handleNameCommand(ctx context.Context, ev *domain.Event, text string) error {
	name := strings.TrimSpace(strings.TrimPrefix(text, nameCommand))
	if name == "" {
		return s.reply(ctx, ev, nameUsageReply)
	}

	outcome, err := s.registry.RenameGroup(ctx, ev.GroupID, name)
	if err != nil {
		return err
	}
	s.logger.Info("group named", "group_id", ev.GroupID, "name", name, "created", outcome == usecase.RenameCreated)

	if outcome == usecase.RenameCreated {
		return s.reply(ctx, ev, "✅ 已新增並命名："+name)
	}
	return s.reply(ctx, ev, "✅ 命名成功："+name)
}

// handleMention strips the bot mention and forwards the remainder to the
// completion relay. Relay failures degrade to a fixed apology instead of
// propagating.
func (s *EventService) handleMention(ctx context.Context, ev *domain.Event, text string) error {
	prompt := strings.TrimSpace(strings.ReplaceAll(text, "@"+s.botName, ""))
	if prompt == "" {
		return nil
	}

	answer, err := s.relay.Complete(ctx, prompt)
	if err != nil || answer == "" {
		s.logger.Warn("prompt relay failed", "group_id", ev.GroupID, "error", err)
		return s.reply(ctx, ev, relayFallbackReply)
	}
	return s.reply(ctx, ev, answer)
}

func (s *EventService) reply(ctx context.Context, ev *domain.Event, text string) error {
	if !ev.CanReply() {
		s.logger.Debug("skipping reply, sentinel or missing token", "kind", ev.Kind)
		return nil
	}
	return s.messenger.Reply(ctx, ev.ReplyToken, text)
}

// archiveMessage appends the message to the log worksheet, best effort.
func (s *EventService) archiveMessage(ctx context.Context, ev *domain.Event) {
	if s.messageLog == nil {
		return
	}

	receivedAt := ev.Timestamp
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	entry := &domain.MessageEntry{
		ReceivedAt: receivedAt,
		GroupID:    ev.GroupID,
		UserID:     ev.UserID,
		Text:       ev.Text,
	}
	if err := s.messageLog.Append(ctx, entry); err != nil {
		s.logger.Warn("message archive failed", "group_id", ev.GroupID, "error", err)
	}
}
