package models

import (
	"time"

	"github.com/lib/pq"
)

type Question struct {
	ID                int            `gorm:"primaryKey" json:"id"`
	AuthorID          int            `gorm:"not null;index" json:"authorId"`
	Author            User           `gorm:"foreignKey:AuthorID" json:"-"`
	Title             string         `gorm:"not null" json:"title"`
	Content           string         `gorm:"not null" json:"content"`
	Community         string         `gorm:"not null" json:"community"`
	Tags              pq.StringArray `gorm:"type:text[]" json:"tags"`
	WhoCanAnswer      pq.StringArray `gorm:"type:text[]" json:"whoCanAnswer"`
	AskAnonymously    bool           `gorm:"default:false" json:"askAnonymously"`
	Upvotes           int            `gorm:"not null;default:0" json:"upvotes"`
	Downvotes         int            `gorm:"not null;default:0" json:"downvotes"`
	TotalScore        int            `gorm:"not null;default:0;index" json:"totalScore"`
	AnswersCount      int            `gorm:"not null;default:0" json:"answersCount"`
	HasAcceptedAnswer bool           `gorm:"default:true" json:"hasAcceptedAnswer"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

type CreateQuestionRequest struct {
	Title          string   `json:"title" binding:"required"`
	Content        string   `json:"content" binding:"required"`
	Community      string   `json:"community" binding:"required"`
	Tags           []string `json:"tags" binding:"required"`
	WhoCanAnswer   []string `json:"whoCanAnswer"`
	AskAnonymously bool     `json:"askAnonymously"`
}

// QuestionView is a question as seen by one (possibly anonymous) reader.
type QuestionView struct {
	ID           int            `json:"_id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	ContentHTML  string         `json:"contentHtml"`
	Community    string         `json:"community"`
	Tags         pq.StringArray `json:"tags"`
	Upvotes      int            `json:"upvotes"`
	Downvotes    int            `json:"downvotes"`
	TotalScore   int            `json:"totalScore"`
	AnswersCount int            `json:"answersCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	Author       Author         `json:"author"`
	UserVote     *string        `json:"userVote"`
}
