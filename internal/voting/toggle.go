package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Result is the outcome of one toggle request.
type Result struct {
	Action   Action
	Kind     Kind // None once the vote is removed
	Counters Counters
}

// Toggler runs the toggle protocol for one entity kind.
type Toggler struct {
	store  Store
	domain Domain
	logger *slog.Logger
}

func NewToggler(store Store, domain Domain, logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toggler{
		store:  store,
		domain: domain,
		logger: logger.With("domain", domain.Name()),
	}
}

// Toggle casts kind on target for user. Casting the same kind twice removes
// the vote; casting the other kind flips it.
func (t *Toggler) Toggle(ctx context.Context, user *Requester, targetID int, kind Kind) (Result, error) {
	if user == nil {
		return Result{}, ErrUnauthenticated
	}
	if !t.domain.Valid(kind) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidVoteKind, kind)
	}

	var res Result
	err := t.store.Transact(ctx, func(ledger Ledger, targets Targets) error {
		counters, err := targets.LoadCounters(ctx, targetID)
		if err != nil {
			return err
		}

		existing, err := ledger.FindVote(ctx, user.ID, targetID)
		if err != nil {
			return fmt.Errorf("find vote: %w", err)
		}

		var deltas []Delta
		switch {
		case existing == nil:
			if _, err := ledger.CreateVote(ctx, user.ID, targetID, kind); err != nil {
				return err
			}
			res = Result{Action: Created, Kind: kind}
			deltas = []Delta{{Kind: kind, N: 1}}

		case existing.Kind == kind:
			if err := ledger.DeleteVote(ctx, existing); err != nil {
				return fmt.Errorf("delete vote: %w", err)
			}
			res = Result{Action: Removed, Kind: None}
			deltas = []Delta{{Kind: kind, N: -1}}

		default:
			previous := existing.Kind
			if err := ledger.UpdateVoteKind(ctx, existing, kind); err != nil {
				return fmt.Errorf("update vote: %w", err)
			}
			res = Result{Action: Updated, Kind: kind}
			deltas = []Delta{{Kind: kind, N: 1}, {Kind: previous, N: -1}}
		}

		res.Counters = Aggregate(counters, deltas...)
		if err := targets.SaveCounters(ctx, targetID, res.Counters); err != nil {
			return fmt.Errorf("save counters: %w", err)
		}
		return nil
	})

	switch {
	case err == nil:
		t.logger.DebugContext(ctx, "vote toggled",
			"user_id", user.ID, "target_id", targetID, "action", res.Action, "kind", res.Kind)
		return res, nil
	case errors.Is(err, ErrDuplicateVote):
		t.logger.InfoContext(ctx, "concurrent vote detected, reporting stored state",
			"user_id", user.ID, "target_id", targetID)
		return t.Current(ctx, user, targetID)
	default:
		return Result{}, err
	}
}

// Current reads the stored vote of user on target together with the
// target's counters, without mutating anything.
func (t *Toggler) Current(ctx context.Context, user *Requester, targetID int) (Result, error) {
	if user == nil {
		return Result{}, ErrUnauthenticated
	}

	res := Result{Action: Unchanged, Kind: None}
	err := t.store.Transact(ctx, func(ledger Ledger, targets Targets) error {
		counters, err := targets.LoadCounters(ctx, targetID)
		if err != nil {
			return err
		}
		res.Counters = counters

		rec, err := ledger.FindVote(ctx, user.ID, targetID)
		if err != nil {
			return fmt.Errorf("find vote: %w", err)
		}
		if rec != nil {
			res.Kind = rec.Kind
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
