package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleStudent RoleType = "STUDENT"
	RolePartner RoleType = "PARTNER"
)

// Visibility controls who can discover a project
type Visibility string

const (
	// VisibilityPublic projects appear in browse and search
	VisibilityPublic Visibility = "PUBLIC"
	// VisibilityUnlisted projects load by direct link only
	VisibilityUnlisted Visibility = "UNLISTED"
)

// EventType tags an engagement event
type EventType string

const (
	EventView     EventType = "VIEW"
	EventDownload EventType = "DOWNLOAD"
	EventLike     EventType = "LIKE"
	EventUnlike   EventType = "UNLIKE"
	EventComment  EventType = "COMMENT"
)

// LikeEntity identifies what a like attaches to
type LikeEntity string

const (
	LikeEntityProject LikeEntity = "project"
	LikeEntityComment LikeEntity = "comment"
)
