package models

import "time"

// Comment represents the comments table.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	IssueID   int64     `json:"issue_id" db:"issue_id"`
	AuthorID  *int64    `json:"author_id,omitempty" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateCommentRequest is the payload for comment creation.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
