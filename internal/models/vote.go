package models

import "time"

// QuestionVote - one row per (user, question); the unique index is what
// keeps concurrent first votes from producing two rows.
type QuestionVote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;uniqueIndex:idx_question_votes_user_question" json:"user_id"`
	QuestionID int       `gorm:"not null;uniqueIndex:idx_question_votes_user_question;index" json:"question_id"`
	VoteType   string    `gorm:"type:varchar(10);not null" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AnswerVote - one row per (user, answer).
type AnswerVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_answer_votes_user_answer" json:"user_id"`
	AnswerID  int       `gorm:"not null;uniqueIndex:idx_answer_votes_user_answer;index" json:"answer_id"`
	VoteType  string    `gorm:"type:varchar(10);not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentLike - presence means liked.
type CommentLike struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment" json:"user_id"`
	CommentID int       `gorm:"not null;uniqueIndex:idx_comment_likes_user_comment;index" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
