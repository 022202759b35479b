package data

import (
	"testing"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
)

func TestGroupFromRow(t *testing.T) {
	rec := groupFromRow(5, []string{"好店", "G1", "2024-01-02 10:00:00", "備註", "是"})

	if rec.Row != 5 {
		t.Errorf("Expected row 5, got %d", rec.Row)
	}
	if rec.Name != "好店" || rec.GroupID != "G1" {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if rec.Note != "備註" {
		t.Errorf("Expected note to survive, got %q", rec.Note)
	}
	if !rec.Named {
		t.Error("Expected 是 to mark the group named")
	}
}

func TestGroupFromRow_ShortRow(t *testing.T) {
	rec := groupFromRow(2, []string{domain.UnnamedGroupName, "G2"})

	if rec.JoinedAt != "" || rec.Note != "" {
		t.Errorf("Expected missing cells to read empty, got %+v", rec)
	}
	if rec.Named {
		t.Error("Expected a missing named cell to count as unnamed")
	}
	if !rec.IsUnnamed() {
		t.Error("Expected the record to read as unnamed")
	}
}

func TestGroupFromRow_NamedSpellings(t *testing.T) {
	for _, v := range []string{"是", "TRUE", "yes", "1"} {
		rec := groupFromRow(2, []string{"店", "G1", "", "", v})
		if !rec.Named {
			t.Errorf("Expected %q to count as named", v)
		}
	}
	for _, v := range []string{"否", "no", "", "maybe"} {
		rec := groupFromRow(2, []string{"店", "G1", "", "", v})
		if rec.Named {
			t.Errorf("Expected %q to count as unnamed", v)
		}
	}
}

func TestRuleFromRow(t *testing.T) {
	rule := ruleFromRow(3, []string{"是", "refund", "請處理退款", "G9"})

	if rule.Row != 3 {
		t.Errorf("Expected row 3, got %d", rule.Row)
	}
	if !rule.IsEnabled() {
		t.Error("Expected the rule to be enabled")
	}
	if rule.Keyword != "refund" || rule.TargetGroupID != "G9" {
		t.Errorf("Unexpected rule: %+v", rule)
	}
}

func TestRuleFromRow_ShortRow(t *testing.T) {
	rule := ruleFromRow(2, []string{"是"})

	if rule.IsEnabled() && rule.Keyword != "" {
		t.Errorf("Unexpected rule: %+v", rule)
	}
	if rule.Text != "" || rule.TargetGroupID != "" {
		t.Errorf("Expected missing cells to read empty, got %+v", rule)
	}
}

func TestNewMessageLogRepo_Disabled(t *testing.T) {
	if repo := NewMessageLogRepo(nil, ""); repo != nil {
		t.Error("Expected a nil repository when no worksheet is configured")
	}
}
