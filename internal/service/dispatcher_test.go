package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
	"github.com/eltgood/line-sheet-bridge/internal/biz/usecase"
)

// Mock implementations

type mockGroupRepo struct {
	records []domain.GroupRecord

	// failAppendFor makes Append fail for one group id, to exercise
	// per-event isolation.
	failAppendFor string
}

func (m *mockGroupRepo) List(ctx context.Context) ([]domain.GroupRecord, error) {
	out := make([]domain.GroupRecord, len(m.records))
	for i, r := range m.records {
		r.Row = i + 2
		out[i] = r
	}
	return out, nil
}

func (m *mockGroupRepo) Append(ctx context.Context, rec *domain.GroupRecord) error {
	if m.failAppendFor != "" && rec.GroupID == m.failAppendFor {
		return domain.ErrStoreUnavailable
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockGroupRepo) SetName(ctx context.Context, row int, name string) error {
	i := row - 2
	m.records[i].Name = name
	m.records[i].Named = true
	return nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, row int) error {
	i := row - 2
	m.records = append(m.records[:i], m.records[i+1:]...)
	return nil
}

type replyCall struct {
	Token string
	Text  string
}

type recorderMessenger struct {
	replies []replyCall
	pushes  []string
}

func (m *recorderMessenger) Reply(ctx context.Context, replyToken, text string) error {
	m.replies = append(m.replies, replyCall{Token: replyToken, Text: text})
	return nil
}

func (m *recorderMessenger) Push(ctx context.Context, groupID, text string) error {
	m.pushes = append(m.pushes, text)
	return nil
}

type mockRelay struct {
	answer string
	err    error

	prompts []string
}

func (m *mockRelay) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.answer, m.err
}

type mockMessageLog struct {
	entries []*domain.MessageEntry
	err     error
}

func (m *mockMessageLog) Append(ctx context.Context, entry *domain.MessageEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

type fixture struct {
	groups    *mockGroupRepo
	messenger *recorderMessenger
	relay     *mockRelay
	log       *mockMessageLog
	svc       *EventService
}

func newFixture(groups *mockGroupRepo) *fixture {
	f := &fixture{
		groups:    groups,
		messenger: &recorderMessenger{},
		relay:     &mockRelay{},
		log:       &mockMessageLog{},
	}
	registry := usecase.NewRegistryUsecase(groups, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewEventService(registry, f.messenger, f.relay, f.log, "小幫手", logger)
	return f
}

// Tests

func TestHandleJoin(t *testing.T) {
	f := newFixture(&mockGroupRepo{})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventJoin, GroupID: "G1", ReplyToken: "rtok1"},
	})

	if len(f.groups.records) != 1 || f.groups.records[0].GroupID != "G1" {
		t.Fatalf("Expected G1 to be registered, got %+v", f.groups.records)
	}
	if len(f.messenger.replies) != 1 {
		t.Fatalf("Expected one reply, got %d", len(f.messenger.replies))
	}
	if f.messenger.replies[0].Token != "rtok1" || f.messenger.replies[0].Text != joinReply {
		t.Errorf("Unexpected reply: %+v", f.messenger.replies[0])
	}
}

func TestHandleJoin_SentinelTokenSuppressed(t *testing.T) {
	f := newFixture(&mockGroupRepo{})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventJoin, GroupID: "G1", ReplyToken: "00000000000000000000000000000000"},
	})

	if len(f.groups.records) != 1 {
		t.Fatalf("Expected the group to still be registered, got %d records", len(f.groups.records))
	}
	if len(f.messenger.replies) != 0 {
		t.Errorf("Expected zero reply attempts, got %d", len(f.messenger.replies))
	}
}

func TestHandleLeave(t *testing.T) {
	f := newFixture(&mockGroupRepo{records: []domain.GroupRecord{
		{Name: "好店", GroupID: "G1", Named: true},
	}})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventLeave, GroupID: "G1"},
	})

	if len(f.groups.records) != 0 {
		t.Errorf("Expected the record to be removed, got %+v", f.groups.records)
	}
	if len(f.messenger.replies) != 0 {
		t.Errorf("Expected no reply for a leave event, got %d", len(f.messenger.replies))
	}
}

func TestNameCommand_RenamesExisting(t *testing.T) {
	f := newFixture(&mockGroupRepo{records: []domain.GroupRecord{
		{Name: domain.UnnamedGroupName, GroupID: "G1"},
	}})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G1", ReplyToken: "r1", Text: "/命名 好店"},
	})

	if f.groups.records[0].Name != "好店" {
		t.Errorf("Expected group to be renamed, got %q", f.groups.records[0].Name)
	}
	if len(f.messenger.replies) != 1 || f.messenger.replies[0].Text != "✅ 命名成功：好店" {
		t.Errorf("Unexpected replies: %+v", f.messenger.replies)
	}
}

func TestNameCommand_CreatesUnknownGroup(t *testing.T) {
	f := newFixture(&mockGroupRepo{})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G9", ReplyToken: "r1", Text: "/命名 好店"},
	})

	if len(f.groups.records) != 1 || !f.groups.records[0].Named {
		t.Fatalf("Expected a named record to be created, got %+v", f.groups.records)
	}
	if len(f.messenger.replies) != 1 || f.messenger.replies[0].Text != "✅ 已新增並命名：好店" {
		t.Errorf("Unexpected replies: %+v", f.messenger.replies)
	}
}

func TestNameCommand_MissingArgument(t *testing.T) {
	f := newFixture(&mockGroupRepo{records: []domain.GroupRecord{
		{Name: domain.UnnamedGroupName, GroupID: "G1"},
	}})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G1", ReplyToken: "r1", Text: "/命名"},
	})

	if f.groups.records[0].Name != domain.UnnamedGroupName {
		t.Errorf("Expected no mutation, got %q", f.groups.records[0].Name)
	}
	if len(f.messenger.replies) != 1 || f.messenger.replies[0].Text != nameUsageReply {
		t.Errorf("Unexpected replies: %+v", f.messenger.replies)
	}
}

func TestMessage_NamingGate(t *testing.T) {
	f := newFixture(&mockGroupRepo{records: []domain.GroupRecord{
		{Name: domain.UnnamedGroupName, GroupID: "G1"},
		{Name: "好店", GroupID: "G2", Named: true},
	}})

	// An unnamed group gets prompted to run the naming command.
	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G1", ReplyToken: "r1", Text: "大家好"},
	})
	if len(f.messenger.replies) != 1 || f.messenger.replies[0].Text != namePromptReply {
		t.Fatalf("Expected the naming prompt, got %+v", f.messenger.replies)
	}

	// A named group is left alone.
	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G2", ReplyToken: "r2", Text: "大家好"},
	})
	if len(f.messenger.replies) != 1 {
		t.Errorf("Expected no reply for a named group, got %+v", f.messenger.replies)
	}
}

func TestMention_RelaysPrompt(t *testing.T) {
	f := newFixture(&mockGroupRepo{records: []domain.GroupRecord{
		{Name: "好店", GroupID: "G1", Named: true},
	}})
	f.relay.answer = "嗨，有什麼可以幫忙的？"

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G1", ReplyToken: "r1", Text: "@小幫手 今天天氣如何"},
	})

	if len(f.relay.prompts) != 1 || f.relay.prompts[0] != "今天天氣如何" {
		t.Errorf("Expected the stripped prompt, got %+v", f.relay.prompts)
	}
	if len(f.messenger.replies) != 1 || f.messenger.replies[0].Text != f.relay.answer {
		t.Errorf("Expected the relay answer, got %+v", f.messenger.replies)
	}
}

func TestMention_FailsSoft(t *testing.T) {
	f := newFixture(&mockGroupRepo{records: []domain.GroupRecord{
		{Name: "好店", GroupID: "G1", Named: true},
	}})
	f.relay.err = errors.New("timeout")

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G1", ReplyToken: "r1", Text: "@小幫手 在嗎"},
	})

	if len(f.messenger.replies) != 1 || f.messenger.replies[0].Text != relayFallbackReply {
		t.Errorf("Expected the fallback apology, got %+v", f.messenger.replies)
	}
}

func TestBatchIsolation(t *testing.T) {
	f := newFixture(&mockGroupRepo{failAppendFor: "G1"})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventJoin, GroupID: "G1", ReplyToken: "r1"},
		{Kind: domain.EventJoin, GroupID: "G2", ReplyToken: "r2"},
	})

	// G1's store failure must not stop G2 from being handled.
	if len(f.groups.records) != 1 || f.groups.records[0].GroupID != "G2" {
		t.Fatalf("Expected G2 to be registered, got %+v", f.groups.records)
	}
	if len(f.messenger.replies) != 1 || f.messenger.replies[0].Token != "r2" {
		t.Errorf("Expected a reply for G2 only, got %+v", f.messenger.replies)
	}
}

func TestMessage_Archived(t *testing.T) {
	f := newFixture(&mockGroupRepo{records: []domain.GroupRecord{
		{Name: "好店", GroupID: "G1", Named: true},
	}})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G1", UserID: "U1", Text: "/命名 新店"},
		{Kind: domain.EventMessage, GroupID: "G1", UserID: "U2", Text: "收到"},
	})

	if len(f.log.entries) != 2 {
		t.Fatalf("Expected both messages archived, got %d", len(f.log.entries))
	}
	if f.log.entries[1].UserID != "U2" || f.log.entries[1].Text != "收到" {
		t.Errorf("Unexpected archive entry: %+v", f.log.entries[1])
	}
}

func TestMessage_ArchiveFailureIgnored(t *testing.T) {
	f := newFixture(&mockGroupRepo{records: []domain.GroupRecord{
		{Name: domain.UnnamedGroupName, GroupID: "G1"},
	}})
	f.log.err = domain.ErrStoreUnavailable

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, GroupID: "G1", ReplyToken: "r1", Text: "大家好"},
	})

	// The event itself still gets handled.
	if len(f.messenger.replies) != 1 {
		t.Errorf("Expected the naming prompt despite the archive failure, got %+v", f.messenger.replies)
	}
}

func TestMessage_UserSourceIgnored(t *testing.T) {
	f := newFixture(&mockGroupRepo{})

	f.svc.HandleEvents(context.Background(), []domain.Event{
		{Kind: domain.EventMessage, UserID: "U1", ReplyToken: "r1", Text: "hello"},
	})

	if len(f.messenger.replies) != 0 || len(f.groups.records) != 0 || len(f.log.entries) != 0 {
		t.Error("Expected direct messages to be ignored entirely")
	}
}
