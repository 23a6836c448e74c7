package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/askseniors/backend/internal/models"
	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

// ledger stores vote records of type T in their own table. targetColumn
// names the foreign key of the voted entity; kindColumn is empty for
// tables without a vote type (likes).
type ledger[T any] struct {
	db           *gorm.DB
	targetColumn string
	kindColumn   string
	newRow       func(userID, targetID int, kind voting.Kind) *T
	record       func(*T) voting.Record
}

func (l *ledger[T]) FindVote(ctx context.Context, userID, targetID int) (*voting.Record, error) {
	var row T
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND "+l.targetColumn+" = ?", userID, targetID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := l.record(&row)
	return &rec, nil
}

func (l *ledger[T]) CreateVote(ctx context.Context, userID, targetID int, kind voting.Kind) (*voting.Record, error) {
	row := l.newRow(userID, targetID, kind)
	if err := l.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, voting.ErrDuplicateVote
		}
		return nil, fmt.Errorf("create vote: %w", err)
	}
	rec := l.record(row)
	return &rec, nil
}

func (l *ledger[T]) UpdateVoteKind(ctx context.Context, rec *voting.Record, kind voting.Kind) error {
	if l.kindColumn == "" {
		return fmt.Errorf("%w: %q", voting.ErrInvalidVoteKind, kind)
	}
	err := l.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", rec.ID).
		Update(l.kindColumn, string(kind)).Error
	if err != nil {
		return err
	}
	rec.Kind = kind
	return nil
}

func (l *ledger[T]) DeleteVote(ctx context.Context, rec *voting.Record) error {
	return l.db.WithContext(ctx).Delete(new(T), rec.ID).Error
}

func questionVoteLedger(db *gorm.DB) voting.Ledger {
	return &ledger[models.QuestionVote]{
		db:           db,
		targetColumn: "question_id",
		kindColumn:   "vote_type",
		newRow: func(userID, targetID int, kind voting.Kind) *models.QuestionVote {
			return &models.QuestionVote{UserID: userID, QuestionID: targetID, VoteType: string(kind)}
		},
		record: func(v *models.QuestionVote) voting.Record {
			return voting.Record{ID: v.ID, UserID: v.UserID, TargetID: v.QuestionID, Kind: voting.Kind(v.VoteType)}
		},
	}
}

func answerVoteLedger(db *gorm.DB) voting.Ledger {
	return &ledger[models.AnswerVote]{
		db:           db,
		targetColumn: "answer_id",
		kindColumn:   "vote_type",
		newRow: func(userID, targetID int, kind voting.Kind) *models.AnswerVote {
			return &models.AnswerVote{UserID: userID, AnswerID: targetID, VoteType: string(kind)}
		},
		record: func(v *models.AnswerVote) voting.Record {
			return voting.Record{ID: v.ID, UserID: v.UserID, TargetID: v.AnswerID, Kind: voting.Kind(v.VoteType)}
		},
	}
}

func commentLikeLedger(db *gorm.DB) voting.Ledger {
	return &ledger[models.CommentLike]{
		db:           db,
		targetColumn: "comment_id",
		newRow: func(userID, targetID int, _ voting.Kind) *models.CommentLike {
			return &models.CommentLike{UserID: userID, CommentID: targetID}
		},
		record: func(l *models.CommentLike) voting.Record {
			return voting.Record{ID: l.ID, UserID: l.UserID, TargetID: l.CommentID, Kind: voting.Like}
		},
	}
}
