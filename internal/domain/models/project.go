package models

import "time"

// Project represents the projects table. Project names are unique per owner.
type Project struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateProjectRequest is the payload for project creation.
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=150"`
	Description *string `json:"description"`
}

// UpdateProjectRequest carries optional field updates.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ProjectFilter narrows and orders project listings.
type ProjectFilter struct {
	Search    string
	OwnerID   *int64
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

// PaginatedProjects is the listing envelope.
type PaginatedProjects struct {
	Items   []Project `json:"items"`
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}
