package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
	"github.com/eltgood/line-sheet-bridge/internal/biz/repo"
)

const (
	stampLayout = "2006-01-02 15:04"

	notifyHeader    = "🔔【新通知來啦】🔔"
	notifySeparator = "———————"
	notifyFooter    = "🔰 請即刻查閱信箱 🔰\nservice@eltgood.com"

	// Substring the platform puts in its error when the monthly push
	// quota is exhausted.
	quotaMarker = "monthly limit"
)

// PublisherUsecase formats and pushes templated notifications, and
// resolves subject keywords against the notify-rule table.
type PublisherUsecase struct {
	messenger repo.MessengerRepo
	rules     repo.RuleRepo
	loc       *time.Location
}

// NewPublisherUsecase creates a publisher usecase. Timestamps are
// rendered in loc.
func NewPublisherUsecase(messenger repo.MessengerRepo, rules repo.RuleRepo, loc *time.Location) *PublisherUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &PublisherUsecase{messenger: messenger, rules: rules, loc: loc}
}

// Publish wraps message in the notification template and pushes it to
// groupID. Missing fields are a caller error and nothing is sent; push
// failures come back as a classified *domain.DeliveryError.
func (uc *PublisherUsecase) Publish(ctx context.Context, groupID, message string) error {
	if groupID == "" || message == "" {
		return fmt.Errorf("%w: group_id and message are required", domain.ErrBadRequest)
	}

	if err := uc.messenger.Push(ctx, groupID, uc.compose(message)); err != nil {
		return classifyDelivery(err)
	}
	return nil
}

// ResolveRule returns the first enabled rule whose keyword is a
// substring of subject, or nil when nothing matches.
func (uc *PublisherUsecase) ResolveRule(ctx context.Context, subject string) (*domain.NotifyRule, error) {
	rules, err := uc.rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve rule: %w", err)
	}

	rule, ok := domain.MatchRule(rules, subject)
	if !ok {
		return nil, nil
	}
	return rule, nil
}

// PublishSubject resolves subject against the rule table and pushes the
// matched rule's text, with message appended when present, to the rule's
// target group. A nil rule with nil error means no rule matched and
// nothing was sent.
func (uc *PublisherUsecase) PublishSubject(ctx context.Context, subject, message string) (*domain.NotifyRule, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", domain.ErrBadRequest)
	}

	rule, err := uc.ResolveRule(ctx, subject)
	if err != nil || rule == nil {
		return nil, err
	}

	body := rule.Text
	if message != "" {
		body = rule.Text + "\n" + message
	}
	return rule, uc.Publish(ctx, rule.TargetGroupID, body)
}

// compose builds the fixed notification template: header, timestamp,
// separator, body, separator, contact footer.
func (uc *PublisherUsecase) compose(message string) string {
	stamp := time.Now().In(uc.loc).Format(stampLayout)
	return strings.Join([]string{
		notifyHeader,
		"⏰ " + stamp + " ⏰",
		notifySeparator,
		message,
		notifySeparator,
		notifyFooter,
	}, "\n")
}

func classifyDelivery(err error) *domain.DeliveryError {
	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), quotaMarker) {
		return &domain.DeliveryError{Kind: domain.DeliveryQuotaExceeded, Message: msg}
	}
	return &domain.DeliveryError{Kind: domain.DeliveryFailed, Message: msg}
}
