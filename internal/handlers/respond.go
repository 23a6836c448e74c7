package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/askseniors/backend/internal/middleware"
	"github.com/emilythestrangee/askseniors/backend/internal/models"
	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

const (
	defaultPageLimit    = 10
	defaultCommentLimit = 20
)

// projector is the read side used by the listing endpoints.
type projector interface {
	Questions(ctx context.Context, page voting.Page) ([]models.QuestionView, error)
	Answers(ctx context.Context, questionID int, page voting.Page) ([]models.AnswerView, error)
	Comments(ctx context.Context, answerID int, page voting.Page) ([]models.CommentView, error)
}

// requester returns the authenticated user, or nil for anonymous requests.
func requester(c *gin.Context) *voting.Requester {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	return &voting.Requester{ID: id}
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageFromQuery reads ?page and ?limit, falling back to the defaults on
// anything unparsable.
func pageFromQuery(c *gin.Context, defaultLimit int) voting.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return voting.NewPage(requester(c), page, limit, defaultLimit)
}

// respondError maps voting errors to statuses. Anything unrecognised is
// logged and reported as an opaque server error.
func respondError(c *gin.Context, logger *slog.Logger, err error, entity string) {
	switch {
	case errors.Is(err, voting.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, voting.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, voting.ErrInvalidVoteKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote type"})
	default:
		serverError(c, logger, err)
	}
}

func serverError(c *gin.Context, logger *slog.Logger, err error) {
	logger.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
