package data

import (
	"context"
	"fmt"
	"strconv"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
	"github.com/eltgood/line-sheet-bridge/internal/biz/repo"
	"github.com/eltgood/line-sheet-bridge/sheetstore"
)

// Registry worksheet columns: name, group_id, joined_at, note, named.
// Notify-rule worksheet columns: enabled, keyword, text, target_group_id.
// Message worksheet columns: received_at, group_id, user_id, text.

const messageTimeLayout = "2006-01-02 15:04:05"

// groupRepo implements the group registry over the spreadsheet store.
type groupRepo struct {
	store     *sheetstore.Client
	worksheet string
}

// NewGroupRepo creates a sheet-backed group repository.
func NewGroupRepo(store *sheetstore.Client, worksheet string) repo.GroupRepo {
	return &groupRepo{store: store, worksheet: worksheet}
}

func (r *groupRepo) List(ctx context.Context) ([]domain.GroupRecord, error) {
	rows, err := r.store.Rows(ctx, r.worksheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	records := make([]domain.GroupRecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, groupFromRow(i+2, row))
	}
	return records, nil
}

func (r *groupRepo) Append(ctx context.Context, rec *domain.GroupRecord) error {
	named := "否"
	if rec.Named {
		named = "是"
	}
	row := []string{rec.Name, rec.GroupID, rec.JoinedAt, rec.Note, named}
	if err := r.store.AppendRow(ctx, r.worksheet, row); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *groupRepo) SetName(ctx context.Context, row int, name string) error {
	cells := map[string]string{
		"A" + strconv.Itoa(row): name,
		"E" + strconv.Itoa(row): "是",
	}
	if err := r.store.UpdateCells(ctx, r.worksheet, cells); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *groupRepo) Delete(ctx context.Context, row int) error {
	if err := r.store.DeleteRow(ctx, r.worksheet, row); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// ruleRepo reads notify rules from their worksheet.
type ruleRepo struct {
	store     *sheetstore.Client
	worksheet string
}

// NewRuleRepo creates a sheet-backed notify-rule repository.
func NewRuleRepo(store *sheetstore.Client, worksheet string) repo.RuleRepo {
	return &ruleRepo{store: store, worksheet: worksheet}
}

func (r *ruleRepo) List(ctx context.Context) ([]domain.NotifyRule, error) {
	rows, err := r.store.Rows(ctx, r.worksheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	rules := make([]domain.NotifyRule, 0, len(rows))
	for i, row := range rows {
		rules = append(rules, ruleFromRow(i+2, row))
	}
	return rules, nil
}

// messageLogRepo appends archived messages to their worksheet.
type messageLogRepo struct {
	store     *sheetstore.Client
	worksheet string
}

// NewMessageLogRepo creates a sheet-backed message log. A nil repository
// is returned when no worksheet is configured, which disables archiving.
func NewMessageLogRepo(store *sheetstore.Client, worksheet string) repo.MessageLogRepo {
	if worksheet == "" {
		return nil
	}
	return &messageLogRepo{store: store, worksheet: worksheet}
}

func (r *messageLogRepo) Append(ctx context.Context, entry *domain.MessageEntry) error {
	row := []string{
		entry.ReceivedAt.Format(messageTimeLayout),
		entry.GroupID,
		entry.UserID,
		entry.Text,
	}
	if err := r.store.AppendRow(ctx, r.worksheet, row); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func groupFromRow(row int, cells []string) domain.GroupRecord {
	return domain.GroupRecord{
		Row:      row,
		Name:     cell(cells, 0),
		GroupID:  cell(cells, 1),
		JoinedAt: cell(cells, 2),
		Note:     cell(cells, 3),
		Named:    domain.TruthyCell(cell(cells, 4)),
	}
}

func ruleFromRow(row int, cells []string) domain.NotifyRule {
	return domain.NotifyRule{
		Row:           row,
		Enabled:       cell(cells, 0),
		Keyword:       cell(cells, 1),
		Text:          cell(cells, 2),
		TargetGroupID: cell(cells, 3),
	}
}

// cell reads a column by index. The Sheets API drops trailing empty
// cells, so rows may be shorter than the header.
func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
