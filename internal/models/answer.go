package models

import "time"

type Answer struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	Content       string    `gorm:"not null" json:"content"`
	AuthorID      int       `gorm:"not null;index" json:"authorId"`
	Author        User      `gorm:"foreignKey:AuthorID" json:"-"`
	QuestionID    int       `gorm:"not null;index" json:"questionId"`
	Upvotes       int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes     int       `gorm:"not null;default:0" json:"downvotes"`
	TotalScore    int       `gorm:"not null;default:0" json:"totalScore"`
	IsAccepted    bool      `gorm:"default:true" json:"isAccepted"`
	CommentsCount int       `gorm:"not null;default:0" json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}

type AnswerView struct {
	ID            int       `json:"_id"`
	Content       string    `json:"content"`
	ContentHTML   string    `json:"contentHtml"`
	Upvotes       int       `json:"upvotes"`
	Downvotes     int       `json:"downvotes"`
	TotalScore    int       `json:"totalScore"`
	IsAccepted    bool      `json:"isAccepted"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Author        Author    `json:"author"`
	UserVote      *string   `json:"userVote"`
}
