package models

import "time"

const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
)

// Project is a listing that other users can discover and propose to join.
type Project struct {
	ID                  string    `json:"id" db:"id"`
	CreatedBy           string    `json:"createdBy" db:"created_by"`
	Title               string    `json:"title" db:"title"`
	Description         string    `json:"description" db:"description"`
	Category            string    `json:"category" db:"category"`
	Skills              []string  `json:"skills" db:"skills"`
	Duration            string    `json:"duration" db:"duration"`
	TeamSize            string    `json:"teamSize" db:"team_size"`
	Compensation        string    `json:"compensation" db:"compensation"`
	CompensationDetails string    `json:"compensationDetails" db:"compensation_details"`
	Status              string    `json:"status" db:"status"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// ProjectWithOwner includes the owner's profile
type ProjectWithOwner struct {
	Project
	Owner *ProfileSummary `json:"owner,omitempty"`
}

// ProjectFilter narrows the discover listing. Empty fields match everything.
// Query matches title, description or skills; Role matches skills only.
type ProjectFilter struct {
	Category string
	Status   string
	Query    string
	Role     string
}

// Engagement records whether a user liked or is interested in a project.
type Engagement struct {
	ProjectID  string    `json:"projectId" db:"project_id"`
	UserID     string    `json:"userId" db:"user_id"`
	Liked      bool      `json:"liked" db:"liked"`
	Interested bool      `json:"interested" db:"interested"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
