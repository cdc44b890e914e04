package models

import "time"

// Event records one engagement action against a project, the raw
// material for the analytics exports.
type Event struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"projectId" db:"project_id"`
	UserID    *int64    `json:"userId,omitempty" db:"user_id"` // Nullable for anonymous views
	Type      EventType `json:"type" db:"event_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Like is a stored like row for a project or comment
type Like struct {
	ID         int64      `json:"id" db:"id"`
	EntityType LikeEntity `json:"entityType" db:"entity_type"`
	EntityID   int64      `json:"entityId" db:"entity_id"`
	UserID     int64      `json:"userId" db:"user_id"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}
