package database

import (
	"context"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/emilythestrangee/askseniors/backend/internal/content"
	"github.com/emilythestrangee/askseniors/backend/internal/models"
	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

// Projections lists questions, answers and comments annotated with the
// viewer's own vote or like. It never writes.
type Projections struct {
	db *gorm.DB
}

func NewProjections(db *gorm.DB) *Projections {
	return &Projections{db: db}
}

type questionRow struct {
	ID             int
	Title          string
	Content        string
	Community      string
	Tags           pq.StringArray
	Upvotes        int
	Downvotes      int
	TotalScore     int
	AnswersCount   int
	CreatedAt      time.Time
	AuthorID       int
	AuthorUsername string
	UserVote       *string
}

// Questions orders by total score, newest first among equal scores.
func (p *Projections) Questions(ctx context.Context, page voting.Page) ([]models.QuestionView, error) {
	cols := []string{
		"q.id", "q.title", "q.content", "q.community", "q.tags",
		"q.upvotes", "q.downvotes", "q.total_score", "q.answers_count", "q.created_at",
		"u.id AS author_id", "u.username AS author_username",
	}

	query := p.db.WithContext(ctx).
		Table("questions AS q").
		Joins("JOIN users u ON u.id = q.author_id")

	if page.Viewer != nil {
		cols = append(cols, "qv.vote_type AS user_vote")
		query = query.Joins("LEFT JOIN question_votes qv ON qv.question_id = q.id AND qv.user_id = ?", page.Viewer.ID)
	}

	var rows []questionRow
	err := query.
		Select(strings.Join(cols, ", ")).
		Order("q.total_score DESC, q.created_at DESC, q.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]models.QuestionView, 0, len(rows))
	for _, r := range rows {
		views = append(views, models.QuestionView{
			ID:           r.ID,
			Title:        r.Title,
			Content:      r.Content,
			ContentHTML:  content.RenderMarkdown(r.Content),
			Community:    r.Community,
			Tags:         r.Tags,
			Upvotes:      r.Upvotes,
			Downvotes:    r.Downvotes,
			TotalScore:   r.TotalScore,
			AnswersCount: r.AnswersCount,
			CreatedAt:    r.CreatedAt,
			Author:       models.Author{ID: r.AuthorID, Username: r.AuthorUsername},
			UserVote:     r.UserVote,
		})
	}
	return views, nil
}

type answerRow struct {
	ID             int
	Content        string
	Upvotes        int
	Downvotes      int
	TotalScore     int
	IsAccepted     bool
	CommentsCount  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorID       int
	AuthorUsername string
	UserVote       *string
}

// Answers lists the answers of one question: accepted first, then by
// score, oldest first among equal scores.
func (p *Projections) Answers(ctx context.Context, questionID int, page voting.Page) ([]models.AnswerView, error) {
	cols := []string{
		"a.id", "a.content", "a.upvotes", "a.downvotes", "a.total_score",
		"a.is_accepted", "a.comments_count", "a.created_at", "a.updated_at",
		"u.id AS author_id", "u.username AS author_username",
	}

	query := p.db.WithContext(ctx).
		Table("answers AS a").
		Joins("JOIN users u ON u.id = a.author_id").
		Where("a.question_id = ?", questionID)

	if page.Viewer != nil {
		cols = append(cols, "av.vote_type AS user_vote")
		query = query.Joins("LEFT JOIN answer_votes av ON av.answer_id = a.id AND av.user_id = ?", page.Viewer.ID)
	}

	var rows []answerRow
	err := query.
		Select(strings.Join(cols, ", ")).
		Order("a.is_accepted DESC, a.total_score DESC, a.created_at ASC, a.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]models.AnswerView, 0, len(rows))
	for _, r := range rows {
		views = append(views, models.AnswerView{
			ID:            r.ID,
			Content:       r.Content,
			ContentHTML:   content.RenderMarkdown(r.Content),
			Upvotes:       r.Upvotes,
			Downvotes:     r.Downvotes,
			TotalScore:    r.TotalScore,
			IsAccepted:    r.IsAccepted,
			CommentsCount: r.CommentsCount,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
			Author:        models.Author{ID: r.AuthorID, Username: r.AuthorUsername},
			UserVote:      r.UserVote,
		})
	}
	return views, nil
}

type commentRow struct {
	ID             int
	Content        string
	Likes          int
	RepliesCount   int
	CreatedAt      time.Time
	AuthorID       int
	AuthorUsername string
	HasUserLiked   bool
}

// Comments lists the top-level comments of one answer, oldest first.
func (p *Projections) Comments(ctx context.Context, answerID int, page voting.Page) ([]models.CommentView, error) {
	cols := []string{
		"c.id", "c.content", "c.likes", "c.replies_count", "c.created_at",
		"u.id AS author_id", "u.username AS author_username",
	}

	query := p.db.WithContext(ctx).
		Table("comments AS c").
		Joins("JOIN users u ON u.id = c.author_id").
		Where("c.answer_id = ? AND c.parent_comment_id IS NULL", answerID)

	if page.Viewer != nil {
		cols = append(cols, "cl.id IS NOT NULL AS has_user_liked")
		query = query.Joins("LEFT JOIN comment_likes cl ON cl.comment_id = c.id AND cl.user_id = ?", page.Viewer.ID)
	}

	var rows []commentRow
	err := query.
		Select(strings.Join(cols, ", ")).
		Order("c.created_at ASC, c.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(rows))
	for _, r := range rows {
		views = append(views, models.CommentView{
			ID:           r.ID,
			Content:      r.Content,
			ContentHTML:  content.RenderMarkdown(r.Content),
			Likes:        r.Likes,
			RepliesCount: r.RepliesCount,
			CreatedAt:    r.CreatedAt,
			Author:       models.Author{ID: r.AuthorID, Username: r.AuthorUsername},
			HasUserLiked: r.HasUserLiked,
		})
	}
	return views, nil
}
