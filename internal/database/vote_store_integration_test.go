package database_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/askseniors/backend/internal/database"
	"github.com/emilythestrangee/askseniors/backend/internal/database/databasetest"
	"github.com/emilythestrangee/askseniors/backend/internal/models"
	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

func TestQuestionVoteStore_Scenario(t *testing.T) {
	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			db := databasetest.Open(t, driver)
			user := databasetest.CreateUser(t, db, "alice")
			q := databasetest.CreateQuestion(t, db, user.ID, "first")
			toggler := voting.NewToggler(database.NewQuestionVoteStore(db), voting.Votes, nil)
			ctx := context.Background()
			voter := &voting.Requester{ID: user.ID}

			res, err := toggler.Toggle(ctx, voter, q.ID, voting.Upvote)
			require.NoError(t, err)
			assert.Equal(t, voting.Created, res.Action)
			assert.Equal(t, voting.Counters{Upvotes: 1, TotalScore: 1}, res.Counters)

			res, err = toggler.Toggle(ctx, voter, q.ID, voting.Upvote)
			require.NoError(t, err)
			assert.Equal(t, voting.Removed, res.Action)
			assert.Equal(t, voting.Counters{}, res.Counters)

			res, err = toggler.Toggle(ctx, voter, q.ID, voting.Downvote)
			require.NoError(t, err)
			assert.Equal(t, voting.Created, res.Action)
			assert.Equal(t, -1, res.Counters.TotalScore)

			res, err = toggler.Toggle(ctx, voter, q.ID, voting.Upvote)
			require.NoError(t, err)
			assert.Equal(t, voting.Updated, res.Action)
			assert.Equal(t, voting.Counters{Upvotes: 1, TotalScore: 1}, res.Counters)

			var stored models.Question
			require.NoError(t, db.First(&stored, q.ID).Error)
			assert.Equal(t, 1, stored.Upvotes)
			assert.Equal(t, 0, stored.Downvotes)
			assert.Equal(t, 1, stored.TotalScore)

			var votes []models.QuestionVote
			require.NoError(t, db.Where("question_id = ?", q.ID).Find(&votes).Error)
			require.Len(t, votes, 1)
			assert.Equal(t, "upvote", votes[0].VoteType)
		})
	}
}

func TestVoteStore_TargetNotFound(t *testing.T) {
	db := databasetest.Open(t, "pgx")
	user := databasetest.CreateUser(t, db, "alice")
	toggler := voting.NewToggler(database.NewAnswerVoteStore(db), voting.Votes, nil)

	_, err := toggler.Toggle(context.Background(), &voting.Requester{ID: user.ID}, 12345, voting.Upvote)
	require.ErrorIs(t, err, voting.ErrTargetNotFound)

	var count int64
	db.Model(&models.AnswerVote{}).Count(&count)
	assert.Zero(t, count)
}

func TestLedger_UniqueIndexRejectsSecondCreate(t *testing.T) {
	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			db := databasetest.Open(t, driver)
			user := databasetest.CreateUser(t, db, "alice")
			q := databasetest.CreateQuestion(t, db, user.ID, "first")
			store := database.NewQuestionVoteStore(db)
			ctx := context.Background()

			err := store.Transact(ctx, func(l voting.Ledger, _ voting.Targets) error {
				_, err := l.CreateVote(ctx, user.ID, q.ID, voting.Upvote)
				return err
			})
			require.NoError(t, err)

			err = store.Transact(ctx, func(l voting.Ledger, _ voting.Targets) error {
				_, err := l.CreateVote(ctx, user.ID, q.ID, voting.Downvote)
				return err
			})
			require.ErrorIs(t, err, voting.ErrDuplicateVote)

			var rec *voting.Record
			err = store.Transact(ctx, func(l voting.Ledger, _ voting.Targets) error {
				var err error
				rec, err = l.FindVote(ctx, user.ID, q.ID)
				return err
			})
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, voting.Upvote, rec.Kind)
		})
	}
}

func TestAnswerVoteStore_ConcurrentDistinctUsers(t *testing.T) {
	db := databasetest.Open(t, "pgx")
	author := databasetest.CreateUser(t, db, "author")
	q := databasetest.CreateQuestion(t, db, author.ID, "q")
	a := databasetest.CreateAnswer(t, db, author.ID, q.ID)
	toggler := voting.NewToggler(database.NewAnswerVoteStore(db), voting.Votes, nil)

	const voters = 8
	users := make([]models.User, voters)
	for i := range users {
		users[i] = databasetest.CreateUser(t, db, "voter"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	errs := make([]error, voters)
	for i, u := range users {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			_, errs[i] = toggler.Toggle(context.Background(), &voting.Requester{ID: id}, a.ID, voting.Upvote)
		}(i, u.ID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	var stored models.Answer
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.Equal(t, voters, stored.Upvotes)
	assert.Equal(t, voters, stored.TotalScore)
}

func TestAnswerVoteStore_ConcurrentSameUserNeverDoubleCounts(t *testing.T) {
	db := databasetest.Open(t, "pgx")
	author := databasetest.CreateUser(t, db, "author")
	q := databasetest.CreateQuestion(t, db, author.ID, "q")
	a := databasetest.CreateAnswer(t, db, author.ID, q.ID)
	toggler := voting.NewToggler(database.NewAnswerVoteStore(db), voting.Votes, nil)

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := toggler.Toggle(context.Background(), &voting.Requester{ID: author.ID}, a.ID, voting.Upvote)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&models.AnswerVote{}).Where("answer_id = ?", a.ID).Count(&count).Error)
	assert.LessOrEqual(t, count, int64(1))

	var stored models.Answer
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.Equal(t, int(count), stored.Upvotes)
}

func TestCommentLikeStore_Toggle(t *testing.T) {
	db := databasetest.Open(t, "pgx")
	author := databasetest.CreateUser(t, db, "author")
	q := databasetest.CreateQuestion(t, db, author.ID, "q")
	a := databasetest.CreateAnswer(t, db, author.ID, q.ID)
	c := databasetest.CreateComment(t, db, author.ID, a.ID, nil)
	toggler := voting.NewToggler(database.NewCommentLikeStore(db), voting.Likes, nil)
	liker := &voting.Requester{ID: author.ID}

	res, err := toggler.Toggle(context.Background(), liker, c.ID, voting.Like)
	require.NoError(t, err)
	assert.Equal(t, voting.Created, res.Action)
	assert.Equal(t, 1, res.Counters.Likes)

	res, err = toggler.Toggle(context.Background(), liker, c.ID, voting.Like)
	require.NoError(t, err)
	assert.Equal(t, voting.Removed, res.Action)
	assert.Zero(t, res.Counters.Likes)

	var stored models.Comment
	require.NoError(t, db.First(&stored, c.ID).Error)
	assert.Zero(t, stored.Likes)
}
