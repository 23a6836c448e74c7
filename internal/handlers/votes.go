package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/askseniors/backend/internal/metrics"
	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

type VoteHandler struct {
	questions *voting.Toggler
	answers   *voting.Toggler
	comments  *voting.Toggler
	metrics   *metrics.VoteMetrics
	logger    *slog.Logger
}

// NewVoteHandler serves the toggle endpoints. m may be nil.
func NewVoteHandler(questions, answers, comments *voting.Toggler, m *metrics.VoteMetrics, logger *slog.Logger) *VoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoteHandler{questions: questions, answers: answers, comments: comments, metrics: m, logger: logger}
}

type voteInput struct {
	VoteType string `json:"voteType"`
}

// VoteQuestion toggles the caller's vote on a question.
func (h *VoteHandler) VoteQuestion(c *gin.Context) {
	h.vote(c, h.questions, "Question")
}

// VoteAnswer toggles the caller's vote on an answer.
func (h *VoteHandler) VoteAnswer(c *gin.Context) {
	h.vote(c, h.answers, "Answer")
}

func (h *VoteHandler) vote(c *gin.Context, toggler *voting.Toggler, entity string) {
	// A missing or malformed body leaves VoteType empty, which the toggler
	// rejects after the authentication check.
	var input voteInput
	_ = c.ShouldBindJSON(&input)

	// Unparsable ids become 0, which never matches a row.
	id, _ := parseID(c, "id")

	start := time.Now()
	res, err := toggler.Toggle(c.Request.Context(), requester(c), id, voting.Kind(input.VoteType))
	h.metrics.Observe(strings.ToLower(entity), outcome(res, err), time.Since(start))
	if err != nil {
		respondError(c, h.logger, err, entity)
		return
	}

	var voteType any
	if res.Kind != voting.None {
		voteType = res.Kind
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"action":     res.Action,
		"voteType":   voteType,
		"upvotes":    res.Counters.Upvotes,
		"downvotes":  res.Counters.Downvotes,
		"totalScore": res.Counters.TotalScore,
	})
}

// LikeComment toggles the caller's like on a comment.
func (h *VoteHandler) LikeComment(c *gin.Context) {
	id, _ := parseID(c, "id")

	start := time.Now()
	res, err := h.comments.Toggle(c.Request.Context(), requester(c), id, voting.Like)
	h.metrics.Observe("comment", outcome(res, err), time.Since(start))
	if err != nil {
		respondError(c, h.logger, err, "Comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"action":       likeAction(res.Action),
		"likes":        res.Counters.Likes,
		"hasUserLiked": res.Kind == voting.Like,
	})
}

func likeAction(a voting.Action) string {
	switch a {
	case voting.Created:
		return "liked"
	case voting.Removed:
		return "unliked"
	default:
		return string(a)
	}
}

// outcome labels a toggle for metrics.
func outcome(res voting.Result, err error) string {
	switch {
	case err == nil:
		return string(res.Action)
	case errors.Is(err, voting.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, voting.ErrTargetNotFound):
		return "not_found"
	case errors.Is(err, voting.ErrInvalidVoteKind):
		return "invalid_kind"
	default:
		return "error"
	}
}
