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

var errInvalidParent = errors.New("invalid parent comment")

type CommentHandler struct {
	db          *gorm.DB
	projections projector
	logger      *slog.Logger
}

func NewCommentHandler(db *gorm.DB, projections projector, logger *slog.Logger) *CommentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentHandler{db: db, projections: projections, logger: logger}
}

// GetComments returns a page of an answer's top-level comments annotated
// with whether the caller liked them.
func (h *CommentHandler) GetComments(c *gin.Context) {
	answerID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}
	page := pageFromQuery(c, defaultCommentLimit)

	comments, err := h.projections.Comments(c.Request.Context(), answerID, page)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":    comments,
		"page":        page.Page,
		"limit":       page.Limit,
		"hasNextPage": page.HasNextPage(len(comments)),
	})
}

// AddComment comments on an answer, or replies to one of its comments when
// parentComment is set.
func (h *CommentHandler) AddComment(c *gin.Context) {
	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	answerID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	comment := models.Comment{
		Content:         input.Content,
		AuthorID:        userID,
		AnswerID:        answerID,
		ParentCommentID: input.ParentComment,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.Select("id").First(&answer, answerID).Error; err != nil {
			return err
		}

		if input.ParentComment != nil {
			var parent models.Comment
			err := tx.Select("id", "answer_id").First(&parent, *input.ParentComment).Error
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.AnswerID != answerID) {
				return errInvalidParent
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&parent).UpdateColumn("replies_count", gorm.Expr("replies_count + ?", 1)).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&answer).UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, errInvalidParent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent comment"})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	default:
		serverError(c, h.logger, err)
		return
	}

	var author models.User
	h.db.WithContext(c.Request.Context()).Select("id", "username").First(&author, userID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": models.CommentView{
			ID:          comment.ID,
			Content:     comment.Content,
			ContentHTML: content.RenderMarkdown(comment.Content),
			CreatedAt:   comment.CreatedAt,
			Author:      models.Author{ID: userID, Username: author.Username},
		},
	})
}
