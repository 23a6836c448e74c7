package voting

import "errors"

var (
	ErrUnauthenticated = errors.New("voting: request is not authenticated")
	ErrTargetNotFound  = errors.New("voting: target not found")
	ErrInvalidVoteKind = errors.New("voting: invalid vote kind")
	// ErrDuplicateVote is returned by a Ledger when the (user, target)
	// uniqueness constraint rejects a create.
	ErrDuplicateVote = errors.New("voting: duplicate vote")
)
