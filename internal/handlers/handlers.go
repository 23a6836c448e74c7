package handlers

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/emilythestrangee/askseniors/backend/internal/auth"
	"github.com/emilythestrangee/askseniors/backend/internal/config"
	"github.com/emilythestrangee/askseniors/backend/internal/database"
	"github.com/emilythestrangee/askseniors/backend/internal/mail"
	"github.com/emilythestrangee/askseniors/backend/internal/metrics"
	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Comment  *CommentHandler
	Vote     *VoteHandler
}

// Deps are the collaborators shared by the handlers. Clock, VoteMetrics
// and Logger are optional.
type Deps struct {
	DB          *gorm.DB
	Config      *config.Config
	Issuer      *auth.Issuer
	Mailer      mail.Mailer
	Clock       clockwork.Clock
	VoteMetrics *metrics.VoteMetrics
	Logger      *slog.Logger
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	projections := database.NewProjections(d.DB)

	return &Handler{
		Auth:     NewAuthHandler(d.DB, d.Config, d.Issuer, d.Mailer, d.Clock, logger),
		Question: NewQuestionHandler(d.DB, projections, logger),
		Answer:   NewAnswerHandler(d.DB, projections, logger),
		Comment:  NewCommentHandler(d.DB, projections, logger),
		Vote: NewVoteHandler(
			voting.NewToggler(database.NewQuestionVoteStore(d.DB), voting.Votes, logger),
			voting.NewToggler(database.NewAnswerVoteStore(d.DB), voting.Votes, logger),
			voting.NewToggler(database.NewCommentLikeStore(d.DB), voting.Likes, logger),
			d.VoteMetrics,
			logger,
		),
	}
}
