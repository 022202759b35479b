package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
	"github.com/eltgood/line-sheet-bridge/internal/biz/repo"
)

const joinedAtLayout = "2006-01-02 15:04:05"

// RenameOutcome reports what RenameGroup did.
type RenameOutcome int

const (
	// RenameUpdated means an existing record's name was overwritten.
	RenameUpdated RenameOutcome = iota
	// RenameCreated means no record existed and one was appended with
	// the given name.
	RenameCreated
)

// RegistryUsecase maintains the group registry: one row per known group,
// at most one row per group id. Every operation scans the full table;
// the registry is small and calls are infrequent, so no index or cache
// is kept.
type RegistryUsecase struct {
	groups repo.GroupRepo
	loc    *time.Location
}

// NewRegistryUsecase creates a registry usecase. Timestamps are rendered
// in loc.
func NewRegistryUsecase(groups repo.GroupRepo, loc *time.Location) *RegistryUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &RegistryUsecase{groups: groups, loc: loc}
}

// EnsureGroup registers groupID if it is not present yet and reports
// whether a new row was appended. The check-then-append pair is not
// atomic against concurrent callers racing on the same id; webhook
// delivery for a single join is serialized by the platform, so the
// duplicate window is accepted.
func (uc *RegistryUsecase) EnsureGroup(ctx context.Context, groupID string) (bool, error) {
	rec, err := uc.find(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("ensure group: %w", err)
	}
	if rec != nil {
		return false, nil
	}

	newRec := &domain.GroupRecord{
		Name:     domain.UnnamedGroupName,
		GroupID:  groupID,
		JoinedAt: time.Now().In(uc.loc).Format(joinedAtLayout),
	}
	if err := uc.groups.Append(ctx, newRec); err != nil {
		return false, fmt.Errorf("ensure group: %w", err)
	}
	return true, nil
}

// RenameGroup sets the display name of groupID. When no record exists
// the group is appended already named, and RenameCreated is returned so
// callers can send a different confirmation.
func (uc *RegistryUsecase) RenameGroup(ctx context.Context, groupID, name string) (RenameOutcome, error) {
	rec, err := uc.find(ctx, groupID)
	if err != nil {
		return RenameUpdated, fmt.Errorf("rename group: %w", err)
	}

	if rec != nil {
		if err := uc.groups.SetName(ctx, rec.Row, name); err != nil {
			return RenameUpdated, fmt.Errorf("rename group: %w", err)
		}
		return RenameUpdated, nil
	}

	newRec := &domain.GroupRecord{
		Name:     name,
		GroupID:  groupID,
		JoinedAt: time.Now().In(uc.loc).Format(joinedAtLayout),
		Named:    true,
	}
	if err := uc.groups.Append(ctx, newRec); err != nil {
		return RenameCreated, fmt.Errorf("rename group: %w", err)
	}
	return RenameCreated, nil
}

// DeleteGroup removes the record for groupID and reports whether a row
// was removed.
func (uc *RegistryUsecase) DeleteGroup(ctx context.Context, groupID string) (bool, error) {
	rec, err := uc.find(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("delete group: %w", err)
	}
	if rec == nil {
		return false, nil
	}

	if err := uc.groups.Delete(ctx, rec.Row); err != nil {
		return false, fmt.Errorf("delete group: %w", err)
	}
	return true, nil
}

// IsNamed reports whether groupID has been named. Unknown groups count
// as unnamed. The flag lives in the store so the naming gate survives
// process restarts.
func (uc *RegistryUsecase) IsNamed(ctx context.Context, groupID string) (bool, error) {
	rec, err := uc.find(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("is named: %w", err)
	}
	return rec != nil && rec.Named, nil
}

func (uc *RegistryUsecase) find(ctx context.Context, groupID string) (*domain.GroupRecord, error) {
	records, err := uc.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].GroupID == groupID {
			return &records[i], nil
		}
	}
	return nil, nil
}
