package usecase

import (
	"context"
	"fmt"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/pkg/utils"
)

// ownedBy is the single ownership check behind every update and delete.
// A missing record and someone else's record look the same to the caller.
func ownedBy(record entity.Owned, userID string, what, id string) error {
	if record == nil || record.OwnerID() == "" || record.OwnerID() != userID {
		return fmt.Errorf("%s %s: %w", what, id, utils.ErrNotFoundOrForbidden)
	}
	return nil
}

// authorOf loads the acting user; a token for a deleted or unknown user
// cannot author anything
func authorOf(ctx context.Context, users repository.UserRepository, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, utils.ErrUnauthenticated
	}
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s no longer exists: %w", userID, utils.ErrUnauthenticated)
	}
	return user, nil
}

// authorNames resolves the usernames of every distinct owner in one lookup
func authorNames(ctx context.Context, users repository.UserRepository, records ...entity.Owned) (map[string]string, error) {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.OwnerID()]; ok {
			continue
		}
		seen[r.OwnerID()] = struct{}{}
		ids = append(ids, r.OwnerID())
	}

	names, err := users.FindUsernames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	return names, nil
}
