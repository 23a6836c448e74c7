package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

// VoteStore pairs one vote ledger with the counters of the entity it
// targets and commits both in a single transaction.
type VoteStore struct {
	db      *gorm.DB
	ledger  func(*gorm.DB) voting.Ledger
	targets func(*gorm.DB) voting.Targets
}

func NewQuestionVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db, ledger: questionVoteLedger, targets: questionCounters}
}

func NewAnswerVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db, ledger: answerVoteLedger, targets: answerCounters}
}

func NewCommentLikeStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db, ledger: commentLikeLedger, targets: commentCounters}
}

func (s *VoteStore) Transact(ctx context.Context, fn func(voting.Ledger, voting.Targets) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.ledger(tx), s.targets(tx))
	})
}
