package models

import "time"

// Comment is a public remark on a project.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"projectId" db:"project_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CommentWithAuthor includes author information
type CommentWithAuthor struct {
	Comment
	Author *ProfileSummary `json:"author,omitempty"`
}
