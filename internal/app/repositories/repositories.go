package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	ProjectRepository      *ProjectRepository
	ProjectFileRepository  *ProjectFileRepository
	LikeRepository         *LikeRepository
	CommentRepository      *CommentRepository
	CollaboratorRepository *CollaboratorRepository
	EventRepository        *EventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		ProjectRepository:      NewProjectRepository(db),
		ProjectFileRepository:  NewProjectFileRepository(db),
		LikeRepository:         NewLikeRepository(db),
		CommentRepository:      NewCommentRepository(db),
		CollaboratorRepository: NewCollaboratorRepository(db),
		EventRepository:        NewEventRepository(db),
	}
}
