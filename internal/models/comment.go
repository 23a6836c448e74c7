package models

import "time"

type Comment struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	Content         string    `gorm:"not null" json:"content"`
	AuthorID        int       `gorm:"not null;index" json:"authorId"`
	Author          User      `gorm:"foreignKey:AuthorID" json:"-"`
	AnswerID        int       `gorm:"not null;index" json:"answerId"`
	ParentCommentID *int      `gorm:"index" json:"parentComment"`
	Likes           int       `gorm:"not null;default:0" json:"likes"`
	RepliesCount    int       `gorm:"not null;default:0" json:"repliesCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateCommentRequest struct {
	Content       string `json:"content" binding:"required"`
	ParentComment *int   `json:"parentComment,omitempty"`
}

type CommentView struct {
	ID           int       `json:"_id"`
	Content      string    `json:"content"`
	ContentHTML  string    `json:"contentHtml"`
	Likes        int       `json:"likes"`
	RepliesCount int       `json:"repliesCount"`
	CreatedAt    time.Time `json:"createdAt"`
	Author       Author    `json:"author"`
	HasUserLiked bool      `json:"hasUserLiked"`
}
