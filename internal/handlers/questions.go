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

type QuestionHandler struct {
	db          *gorm.DB
	projections projector
	logger      *slog.Logger
}

func NewQuestionHandler(db *gorm.DB, projections projector, logger *slog.Logger) *QuestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionHandler{db: db, projections: projections, logger: logger}
}

// AddQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	title := content.PlainText(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	question := models.Question{
		AuthorID:       userID,
		Title:          title,
		Content:        input.Content,
		Community:      input.Community,
		Tags:           input.Tags,
		WhoCanAnswer:   input.WhoCanAnswer,
		AskAnonymously: input.AskAnonymously,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&question).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "New question posted successfully",
		"questionId": question.ID,
	})
}

// GetAllQuestions returns every question, newest first, without vote
// annotations.
func (h *QuestionHandler) GetAllQuestions(c *gin.Context) {
	var questions []models.Question
	if err := h.db.WithContext(c.Request.Context()).Order("created_at desc").Find(&questions).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(questions),
		"questions": questions,
	})
}

// GetQuestionsWithStatus returns a page of questions ordered by score,
// each annotated with the caller's own vote.
func (h *QuestionHandler) GetQuestionsWithStatus(c *gin.Context) {
	page := pageFromQuery(c, defaultPageLimit)

	questions, err := h.projections.Questions(c.Request.Context(), page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions":   questions,
		"page":        page.Page,
		"limit":       page.Limit,
		"hasNextPage": page.HasNextPage(len(questions)),
	})
}

// DeleteQuestion removes a question owned by the caller. Its votes,
// answers and comments are left in place.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var question models.Question
	if err := db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		serverError(c, h.logger, err)
		return
	}

	if question.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own questions"})
		return
	}

	if err := db.Delete(&question).Error; err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Question deleted successfully",
		"questionId": question.ID,
	})
}
