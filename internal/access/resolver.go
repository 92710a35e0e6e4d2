package access

import (
	"context"
	"errors"
	"time"

	"ledgerbot/internal/store"
)

// Directory is the read side of the access registry.
type Directory interface {
	GetGrant(ctx context.Context, userID int64) (*store.AccessGrant, error)
	IsAssistant(ctx context.Context, chatID, userID int64) (bool, error)
}

// Resolver classifies a (chat, user) pair. It is a pure read; when the store
// is unreachable it returns RoleNone alongside the error, so callers that
// ignore the distinction still fail closed.
type Resolver struct {
	dir      Directory
	masterID int64
}

func NewResolver(dir Directory, masterID int64) *Resolver {
	return &Resolver{dir: dir, masterID: masterID}
}

func (r *Resolver) Resolve(ctx context.Context, chatID, userID int64, now time.Time) (Role, error) {
	if userID == r.masterID {
		return RoleMaster, nil
	}

	grant, err := r.dir.GetGrant(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return RoleNone, err
	}
	if grant != nil && grant.ExpireDate != nil && grant.ExpireDate.After(now) {
		return RoleOwner, nil
	}

	ok, err := r.dir.IsAssistant(ctx, chatID, userID)
	if err != nil {
		return RoleNone, err
	}
	if ok {
		return RoleAssistant, nil
	}
	return RoleNone, nil
}
