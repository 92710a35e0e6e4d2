package access

import (
	"context"
	"errors"
	"time"

	"ledgerbot/internal/store"
)

// ErrPermissionDenied is returned when the acting user's role does not allow
// the attempted registry mutation.
var ErrPermissionDenied = errors.New("permission denied")

// GrantStore is the slice of the persistence layer the registry mutates.
type GrantStore interface {
	Directory
	ExtendGrant(ctx context.Context, userID int64, deltaDays int, now time.Time) (time.Time, error)
	AddAssistant(ctx context.Context, chatID, ownerID, assistantID int64) error
	RemoveAssistant(ctx context.Context, chatID, assistantID int64) error
}

type ExpiryStatus int

const (
	ExpiryUnset ExpiryStatus = iota
	ExpiryExpired
	ExpiryActive
)

// ExpiryCheck distinguishes "never granted" from "granted but expired" from
// "active with time remaining".
type ExpiryCheck struct {
	Status     ExpiryStatus
	ExpireDate time.Time
	Remaining  time.Duration
}

// Registry manages owner grants and delegated assistants.
type Registry struct {
	store    GrantStore
	resolver *Resolver
}

func NewRegistry(s GrantStore, r *Resolver) *Registry {
	return &Registry{store: s, resolver: r}
}

// Grant moves userID's expiry by deltaDays (negative shortens, floored at
// now) and returns the new expiry. Caller gating is the dispatcher's job;
// this is the master-only "add days" operation.
func (g *Registry) Grant(ctx context.Context, userID int64, deltaDays int, now time.Time) (time.Time, error) {
	return g.store.ExtendGrant(ctx, userID, deltaDays, now)
}

func (g *Registry) CheckExpiry(ctx context.Context, userID int64, now time.Time) (ExpiryCheck, error) {
	grant, err := g.store.GetGrant(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ExpiryCheck{Status: ExpiryUnset}, nil
		}
		return ExpiryCheck{}, err
	}
	if grant.ExpireDate == nil {
		return ExpiryCheck{Status: ExpiryUnset}, nil
	}
	if !grant.ExpireDate.After(now) {
		return ExpiryCheck{Status: ExpiryExpired, ExpireDate: *grant.ExpireDate}, nil
	}
	return ExpiryCheck{
		Status:     ExpiryActive,
		ExpireDate: *grant.ExpireDate,
		Remaining:  grant.ExpireDate.Sub(now),
	}, nil
}

// AddAssistant delegates assistantID in chatID. Only Master or an active
// Owner may delegate; re-adding an existing pair is a no-op.
func (g *Registry) AddAssistant(ctx context.Context, chatID, actorID, assistantID int64, now time.Time) error {
	if err := g.requireOwner(ctx, chatID, actorID, now); err != nil {
		return err
	}
	return g.store.AddAssistant(ctx, chatID, actorID, assistantID)
}

// RemoveAssistant revokes the delegation; removing a missing pair is a no-op.
func (g *Registry) RemoveAssistant(ctx context.Context, chatID, actorID, assistantID int64, now time.Time) error {
	if err := g.requireOwner(ctx, chatID, actorID, now); err != nil {
		return err
	}
	return g.store.RemoveAssistant(ctx, chatID, assistantID)
}

func (g *Registry) requireOwner(ctx context.Context, chatID, actorID int64, now time.Time) error {
	role, err := g.resolver.Resolve(ctx, chatID, actorID, now)
	if err != nil {
		return err
	}
	if !role.AtLeast(RoleOwner) {
		return ErrPermissionDenied
	}
	return nil
}
