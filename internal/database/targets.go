package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/askseniors/backend/internal/models"
	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

// counterTable reads and writes the counter columns of entity T. Reads
// take a row lock so concurrent toggles on one target queue up instead of
// overwriting each other's counters.
type counterTable[T any] struct {
	db      *gorm.DB
	columns []string
	read    func(*T) voting.Counters
	write   func(voting.Counters) map[string]any
}

func (t *counterTable[T]) LoadCounters(ctx context.Context, targetID int) (voting.Counters, error) {
	var row T
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select(t.columns).
		Where("id = ?", targetID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return voting.Counters{}, voting.ErrTargetNotFound
	}
	if err != nil {
		return voting.Counters{}, err
	}
	return t.read(&row), nil
}

func (t *counterTable[T]) SaveCounters(ctx context.Context, targetID int, c voting.Counters) error {
	return t.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", targetID).
		UpdateColumns(t.write(c)).Error
}

var scoreColumns = []string{"id", "upvotes", "downvotes", "total_score"}

func scoreUpdate(c voting.Counters) map[string]any {
	return map[string]any{
		"upvotes":     c.Upvotes,
		"downvotes":   c.Downvotes,
		"total_score": c.TotalScore,
	}
}

func questionCounters(db *gorm.DB) voting.Targets {
	return &counterTable[models.Question]{
		db:      db,
		columns: scoreColumns,
		read: func(q *models.Question) voting.Counters {
			return voting.Counters{Upvotes: q.Upvotes, Downvotes: q.Downvotes, TotalScore: q.TotalScore}
		},
		write: scoreUpdate,
	}
}

func answerCounters(db *gorm.DB) voting.Targets {
	return &counterTable[models.Answer]{
		db:      db,
		columns: scoreColumns,
		read: func(a *models.Answer) voting.Counters {
			return voting.Counters{Upvotes: a.Upvotes, Downvotes: a.Downvotes, TotalScore: a.TotalScore}
		},
		write: scoreUpdate,
	}
}

func commentCounters(db *gorm.DB) voting.Targets {
	return &counterTable[models.Comment]{
		db:      db,
		columns: []string{"id", "likes"},
		read: func(c *models.Comment) voting.Counters {
			return voting.Counters{Likes: c.Likes}
		},
		write: func(c voting.Counters) map[string]any {
			return map[string]any{"likes": c.Likes}
		},
	}
}
