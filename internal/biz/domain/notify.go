package domain

import (
	"strings"
	"time"
)

// NotifyRule maps a subject keyword to a canned notification. Rules are
// read-only reference data kept in their own worksheet.
type NotifyRule struct {
	Row           int
	Enabled       string
	Keyword       string
	Text          string
	TargetGroupID string
}

// IsEnabled reports whether the rule's enabled cell is truthy.
func (r *NotifyRule) IsEnabled() bool {
	return TruthyCell(r.Enabled)
}

// MatchRule returns the first enabled rule whose keyword is a substring
// of subject, in row order. The second return is false when no rule
// matches.
func MatchRule(rules []NotifyRule, subject string) (*NotifyRule, bool) {
	for i := range rules {
		r := &rules[i]
		if !r.IsEnabled() || r.Keyword == "" {
			continue
		}
		if strings.Contains(subject, r.Keyword) {
			return r, true
		}
	}
	return nil, false
}

// TruthyCell interprets a spreadsheet flag cell. The sheets are edited by
// hand in Chinese, so 是 counts alongside the usual boolean spellings.
func TruthyCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "是", "true", "yes", "y", "1":
		return true
	}
	return false
}

// MessageEntry is one archived group message row.
type MessageEntry struct {
	ReceivedAt time.Time
	GroupID    string
	UserID     string
	Text       string
}
