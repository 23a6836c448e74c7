package voting

import "context"

// Record is one row of a vote ledger.
type Record struct {
	ID       int
	UserID   int
	TargetID int
	Kind     Kind
}

// Ledger holds at most one Record per (user, target).
type Ledger interface {
	// FindVote returns (nil, nil) when the user has not voted on target.
	FindVote(ctx context.Context, userID, targetID int) (*Record, error)
	// CreateVote returns ErrDuplicateVote when a record already exists.
	// Implementations must rely on the storage constraint, not a pre-check.
	CreateVote(ctx context.Context, userID, targetID int, kind Kind) (*Record, error)
	UpdateVoteKind(ctx context.Context, rec *Record, kind Kind) error
	DeleteVote(ctx context.Context, rec *Record) error
}

// Targets gives access to the counters stored on votable entities.
type Targets interface {
	// LoadCounters returns ErrTargetNotFound for unknown ids.
	LoadCounters(ctx context.Context, targetID int) (Counters, error)
	SaveCounters(ctx context.Context, targetID int, c Counters) error
}

// Store runs fn with a ledger and target view. Stores that support
// transactions commit both views together; others apply writes as they
// happen and accept the window where counters lag the ledger.
type Store interface {
	Transact(ctx context.Context, fn func(Ledger, Targets) error) error
}
