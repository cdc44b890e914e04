package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/repositories"
	"github.com/ddct/showcase/internal/db"
	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/likesync"
	"github.com/ddct/showcase/internal/pkg/websocket"
)

// txRunner runs a function inside a single database transaction.
type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// likeStore is the slice of LikeRepository the remotes need.
type likeStore interface {
	Insert(ctx context.Context, tx pgx.Tx, entityType models.LikeEntity, entityID, userID int64) (bool, error)
	Delete(ctx context.Context, tx pgx.Tx, entityType models.LikeEntity, entityID, userID int64) (bool, error)
	Count(ctx context.Context, entityType models.LikeEntity, entityID int64) (int64, error)
	Exists(ctx context.Context, entityType models.LikeEntity, entityID, userID int64) (bool, error)
}

// likeCounter adjusts a cached like counter inside a transaction.
type likeCounter interface {
	AdjustLikeCount(ctx context.Context, tx pgx.Tx, id int64, delta int64) error
}

// eventRecorder records engagement events inside a transaction.
type eventRecorder interface {
	RecordTx(ctx context.Context, tx pgx.Tx, projectID int64, userID *int64, eventType models.EventType) error
}

// projectLikeRemote adapts the repositories to likesync.Remote for
// project likes. The like row, the cached counter, and the LIKE or
// UNLIKE event commit in one transaction, so a crash can never leave
// the counter out of step with the rows. Retried toggles that matched
// an existing row change nothing.
type projectLikeRemote struct {
	database txRunner
	likes    likeStore
	projects likeCounter
	events   eventRecorder
}

func (r *projectLikeRemote) Insert(ctx context.Context, entityID, userID int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		changed, err := r.likes.Insert(ctx, tx, models.LikeEntityProject, entityID, userID)
		if err != nil || !changed {
			return err
		}
		if err := r.projects.AdjustLikeCount(ctx, tx, entityID, 1); err != nil {
			return err
		}
		return r.events.RecordTx(ctx, tx, entityID, &userID, models.EventLike)
	})
}

func (r *projectLikeRemote) Delete(ctx context.Context, entityID, userID int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		changed, err := r.likes.Delete(ctx, tx, models.LikeEntityProject, entityID, userID)
		if err != nil || !changed {
			return err
		}
		if err := r.projects.AdjustLikeCount(ctx, tx, entityID, -1); err != nil {
			return err
		}
		return r.events.RecordTx(ctx, tx, entityID, &userID, models.EventUnlike)
	})
}

func (r *projectLikeRemote) Count(ctx context.Context, entityID int64) (int64, error) {
	return r.likes.Count(ctx, models.LikeEntityProject, entityID)
}

func (r *projectLikeRemote) Exists(ctx context.Context, entityID, userID int64) (bool, error) {
	return r.likes.Exists(ctx, models.LikeEntityProject, entityID, userID)
}

// commentLikeRemote adapts the repositories for comment likes. The like
// row and the comment's counter commit in one transaction.
type commentLikeRemote struct {
	database txRunner
	likes    likeStore
	comments likeCounter
}

func (r *commentLikeRemote) Insert(ctx context.Context, entityID, userID int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		changed, err := r.likes.Insert(ctx, tx, models.LikeEntityComment, entityID, userID)
		if err != nil || !changed {
			return err
		}
		return r.comments.AdjustLikeCount(ctx, tx, entityID, 1)
	})
}

func (r *commentLikeRemote) Delete(ctx context.Context, entityID, userID int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		changed, err := r.likes.Delete(ctx, tx, models.LikeEntityComment, entityID, userID)
		if err != nil || !changed {
			return err
		}
		return r.comments.AdjustLikeCount(ctx, tx, entityID, -1)
	})
}

func (r *commentLikeRemote) Count(ctx context.Context, entityID int64) (int64, error) {
	return r.likes.Count(ctx, models.LikeEntityComment, entityID)
}

func (r *commentLikeRemote) Exists(ctx context.Context, entityID, userID int64) (bool, error) {
	return r.likes.Exists(ctx, models.LikeEntityComment, entityID, userID)
}

// LikeService toggles likes on projects and comments. REST toggles wait
// for the write and answer with the settled state; websocket toggles
// apply optimistically and settle in the background. Settled counts fan
// out to every viewer of the entity's page over the websocket hub.
type LikeService struct {
	projectRepo *repositories.ProjectRepository
	commentRepo *repositories.CommentRepository
	likeRepo    *repositories.LikeRepository
	hub         *websocket.Hub
	logger      zerolog.Logger

	projectSync *likesync.Synchronizer
	commentSync *likesync.Synchronizer
}

// NewLikeService creates a new LikeService
func NewLikeService(repos *repositories.Repositories, database *db.PostgresDB, hub *websocket.Hub, logger zerolog.Logger) *LikeService {
	s := &LikeService{
		projectRepo: repos.ProjectRepository,
		commentRepo: repos.CommentRepository,
		likeRepo:    repos.LikeRepository,
		hub:         hub,
		logger:      logger,
	}

	s.projectSync = likesync.New(&projectLikeRemote{
		database: database,
		likes:    repos.LikeRepository,
		projects: repos.ProjectRepository,
		events:   repos.EventRepository,
	}, s.onProjectSettle)

	s.commentSync = likesync.New(&commentLikeRemote{
		database: database,
		likes:    repos.LikeRepository,
		comments: repos.CommentRepository,
	}, s.onCommentSettle)

	return s
}

func (s *LikeService) onProjectSettle(entityID, userID int64, st likesync.State, err error) {
	if err != nil {
		s.logger.Error().Err(err).
			Int64("projectID", entityID).
			Int64("userID", userID).
			Msg("Project like toggle failed to settle")
		return
	}
	s.hub.BroadcastToTopic(&websocket.Event{
		Type:   websocket.EventLikeUpdate,
		Topic:  websocket.ProjectTopic(entityID),
		Entity: websocket.ProjectTopic(entityID),
		Count:  st.Count,
	})
}

func (s *LikeService) onCommentSettle(entityID, userID int64, st likesync.State, err error) {
	if err != nil {
		s.logger.Error().Err(err).
			Int64("commentID", entityID).
			Int64("userID", userID).
			Msg("Comment like toggle failed to settle")
		return
	}

	// The broadcast topic is the page the comment lives on
	ctx := context.Background()
	comment, getErr := s.commentRepo.GetByID(ctx, entityID)
	if getErr != nil {
		s.logger.Warn().Err(getErr).Int64("commentID", entityID).Msg("Settled comment like has no comment to broadcast for")
		return
	}
	s.hub.BroadcastToTopic(&websocket.Event{
		Type:   websocket.EventLikeUpdate,
		Topic:  websocket.ProjectTopic(comment.ProjectID),
		Entity: websocket.CommentTopic(entityID),
		Count:  st.Count,
	})
}

func (s *LikeService) synchronizer(entityType string) (*likesync.Synchronizer, error) {
	switch entityType {
	case string(models.LikeEntityProject):
		return s.projectSync, nil
	case string(models.LikeEntityComment):
		return s.commentSync, nil
	default:
		return nil, apperrors.NewBadRequestError("unknown like entity type")
	}
}

func (s *LikeService) entityExists(ctx context.Context, entityType string, entityID int64) error {
	switch entityType {
	case string(models.LikeEntityProject):
		exists, err := s.projectRepo.Exists(ctx, entityID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrProjectNotFound
		}
	case string(models.LikeEntityComment):
		if _, err := s.commentRepo.GetByID(ctx, entityID); err != nil {
			return err
		}
	}
	return nil
}

// prepareToggle validates a toggle and seeds the pair from storage on
// first contact, so the initial toggle starts from real counts.
func (s *LikeService) prepareToggle(ctx context.Context, entityType string, entityID, userID int64) (*likesync.Synchronizer, error) {
	if userID <= 0 {
		return nil, apperrors.ErrPermissionDenied
	}

	sync, err := s.synchronizer(entityType)
	if err != nil {
		return nil, err
	}
	if err := s.entityExists(ctx, entityType, entityID); err != nil {
		return nil, err
	}

	if !sync.Known(entityID, userID) {
		if _, err := sync.Load(ctx, entityID, userID); err != nil {
			return nil, err
		}
	}
	return sync, nil
}

// Toggle flips the caller's like on an entity, waits for the write, and
// returns the settled state. While an earlier toggle for the same
// entity is still settling, the repeat is absorbed and the current
// state returned unchanged.
func (s *LikeService) Toggle(ctx context.Context, entityType string, entityID, userID int64) (*dto.LikeStateResponse, error) {
	sync, err := s.prepareToggle(ctx, entityType, entityID, userID)
	if err != nil {
		return nil, err
	}

	st, accepted, err := sync.ToggleSync(ctx, entityID, userID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		s.logger.Debug().
			Str("entityType", entityType).
			Int64("entityID", entityID).
			Int64("userID", userID).
			Msg("Like toggle coalesced with in-flight request")
	}

	return &dto.LikeStateResponse{
		EntityType: entityType,
		EntityID:   entityID,
		Count:      st.Count,
		Liked:      st.Liked,
	}, nil
}

// ToggleLive handles toggle commands arriving over the websocket. The
// toggle applies optimistically and settles in the background; viewers
// learn the settled count from the broadcast.
func (s *LikeService) ToggleLive(ctx context.Context, entityType string, entityID, userID int64) error {
	sync, err := s.prepareToggle(ctx, entityType, entityID, userID)
	if err != nil {
		return err
	}

	if _, accepted := sync.Toggle(ctx, entityID, userID); !accepted {
		s.logger.Debug().
			Str("entityType", entityType).
			Int64("entityID", entityID).
			Int64("userID", userID).
			Msg("Like toggle coalesced with in-flight request")
	}
	return nil
}

// GetState returns the like count and the caller's liked flag for an
// entity. Anonymous viewers get the count with liked always false.
func (s *LikeService) GetState(ctx context.Context, entityType string, entityID, userID int64) (*dto.LikeStateResponse, error) {
	if _, err := s.synchronizer(entityType); err != nil {
		return nil, err
	}
	if err := s.entityExists(ctx, entityType, entityID); err != nil {
		return nil, err
	}

	count, err := s.likeRepo.Count(ctx, models.LikeEntity(entityType), entityID)
	if err != nil {
		return nil, err
	}
	liked := false
	if userID > 0 {
		liked, err = s.likeRepo.Exists(ctx, models.LikeEntity(entityType), entityID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.LikeStateResponse{
		EntityType: entityType,
		EntityID:   entityID,
		Count:      count,
		Liked:      liked,
	}, nil
}
