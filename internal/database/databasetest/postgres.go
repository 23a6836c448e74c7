// Package databasetest starts a throwaway Postgres for integration tests
// and creates fixtures in it.
package databasetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/askseniors/backend/internal/database"
	"github.com/emilythestrangee/askseniors/backend/internal/models"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// startPostgres starts one container per test binary. It is left for the
// testcontainers reaper to remove when the binary exits.
func startPostgres() (string, error) {
	containerOnce.Do(func() {
		ctx := context.Background()
		pg, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			containerErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		containerDSN, containerErr = pg.ConnectionString(ctx, "sslmode=disable")
	})
	return containerDSN, containerErr
}

// Open returns a migrated database with empty tables, connected through
// driver ("pgx" or "postgres"). The test is skipped under -short or when
// Docker is unavailable.
func Open(t *testing.T, driver string) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dsn, err := startPostgres()
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}

	db, err := database.Open(driver, dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	truncate := func() {
		db.Exec("TRUNCATE users, questions, answers, comments, question_votes, answer_votes, comment_likes RESTART IDENTITY CASCADE")
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Email:     username + "@example.com",
		Password:  "hash",
		Role:      models.RoleStudent,
		Enabled:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func CreateQuestion(t *testing.T, db *gorm.DB, authorID int, title string) models.Question {
	t.Helper()
	q := models.Question{
		AuthorID:  authorID,
		Title:     title,
		Content:   "content of " + title,
		Community: "general",
		Tags:      []string{"go", "sql"},
	}
	require.NoError(t, db.Create(&q).Error)
	return q
}

func CreateAnswer(t *testing.T, db *gorm.DB, authorID, questionID int) models.Answer {
	t.Helper()
	a := models.Answer{AuthorID: authorID, QuestionID: questionID, Content: "an answer", IsAccepted: true}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func CreateComment(t *testing.T, db *gorm.DB, authorID, answerID int, parent *int) models.Comment {
	t.Helper()
	c := models.Comment{AuthorID: authorID, AnswerID: answerID, Content: "a comment", ParentCommentID: parent}
	require.NoError(t, db.Create(&c).Error)
	return c
}
