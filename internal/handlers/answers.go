package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/askseniors/backend/internal/content"
	"github.com/emilythestrangee/askseniors/backend/internal/middleware"
	"github.com/emilythestrangee/askseniors/backend/internal/models"
)

type AnswerHandler struct {
	db          *gorm.DB
	projections projector
	logger      *slog.Logger
}

func NewAnswerHandler(db *gorm.DB, projections projector, logger *slog.Logger) *AnswerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerHandler{db: db, projections: projections, logger: logger}
}

// AnswerQuestion posts an answer and bumps the question's answer count.
func (h *AnswerHandler) AnswerQuestion(c *gin.Context) {
	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	questionID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	answer := models.Answer{
		Content:    input.Content,
		AuthorID:   userID,
		QuestionID: questionID,
		IsAccepted: true,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.Select("id").First(&question, questionID).Error; err != nil {
			return err
		}
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		return tx.Model(&question).UpdateColumn("answers_count", gorm.Expr("answers_count + ?", 1)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		serverError(c, h.logger, err)
		return
	}

	var author models.User
	h.db.WithContext(c.Request.Context()).Select("id", "username").First(&author, userID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"answer": models.AnswerView{
			ID:            answer.ID,
			Content:       answer.Content,
			ContentHTML:   content.RenderMarkdown(answer.Content),
			IsAccepted:    answer.IsAccepted,
			CommentsCount: answer.CommentsCount,
			CreatedAt:     answer.CreatedAt,
			UpdatedAt:     answer.UpdatedAt,
			Author:        models.Author{ID: userID, Username: author.Username},
		},
	})
}

// GetAnswers returns a page of a question's answers annotated with the
// caller's own vote.
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	page := pageFromQuery(c, defaultPageLimit)

	answers, err := h.projections.Answers(c.Request.Context(), questionID, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answers":     answers,
		"page":        page.Page,
		"limit":       page.Limit,
		"hasNextPage": page.HasNextPage(len(answers)),
	})
}
