package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/model"
	"cryptoheaven.app/api/internal/repository"
	"cryptoheaven.app/api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultThreadPageSize = 20

type ThreadService interface {
	CreateThread(ctx context.Context, authorAuthID string, req dto.CreateThreadRequest) (*dto.ThreadResponse, error)
	AddCommentToThread(ctx context.Context, threadID uuid.UUID, authorAuthID string, req dto.AddCommentRequest) (*dto.ThreadResponse, error)
	DeleteThread(ctx context.Context, threadID uuid.UUID) error
	LikeThread(ctx context.Context, threadID uuid.UUID, userAuthID string) (*dto.LikeResponse, error)
	FetchPosts(ctx context.Context, page, pageSize int) (*dto.PaginatedThreadResponse, error)
	FetchThreadByID(ctx context.Context, threadID uuid.UUID) (*dto.ThreadDetailResponse, error)
}

type threadService struct {
	threadRepo    repository.ThreadRepository
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	search        SearchService
	redisClient   *redis.Client
	rateLimit     time.Duration
}

func NewThreadService(
	threadRepo repository.ThreadRepository,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	search SearchService,
	redisClient *redis.Client,
	rateLimit time.Duration,
) ThreadService {
	return &threadService{
		threadRepo:    threadRepo,
		communityRepo: communityRepo,
		userRepo:      userRepo,
		notifications: notifications,
		search:        search,
		redisClient:   redisClient,
		rateLimit:     rateLimit,
	}
}

func (s *threadService) CreateThread(ctx context.Context, authorAuthID string, req dto.CreateThreadRequest) (*dto.ThreadResponse, error) {
	author, err := s.userRepo.FindByAuthID(ctx, authorAuthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch author: %w", err)
	}

	ok, err := CheckAndSetRateLimit(ctx, s.redisClient, author.ID, "create_thread", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, rateLimitError(ctx, s.redisClient, author.ID, "create_thread", s.rateLimit)
	}

	thread := &model.Thread{
		AuthorID: author.ID,
		Text:     req.Text,
	}

	// An unknown community id leaves the thread as a personal post.
	if req.CommunityID != "" {
		community, err := s.communityRepo.FindByExternalID(ctx, req.CommunityID)
		if err == nil {
			thread.CommunityID = &community.ID
			thread.Community = community
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to fetch community: %w", err)
		}
	}

	if err := s.threadRepo.Create(ctx, thread); err != nil {
		// Release the cooldown; the post never happened.
		_ = ClearRateLimit(ctx, s.redisClient, author.ID, "create_thread")
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	if s.search != nil {
		if err := s.search.IndexThread(thread); err != nil {
			log.Printf("failed to index thread %s: %v", thread.ID, err)
		}
	}

	thread.Author = *author
	return toThreadResponse(thread), nil
}

func (s *threadService) AddCommentToThread(ctx context.Context, threadID uuid.UUID, authorAuthID string, req dto.AddCommentRequest) (*dto.ThreadResponse, error) {
	parent, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: thread not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}

	author, err := s.userRepo.FindByAuthID(ctx, authorAuthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch author: %w", err)
	}

	// Comments hang off their parent and carry no community of their own.
	comment := &model.Thread{
		AuthorID: author.ID,
		ParentID: &parent.ID,
		Text:     req.Text,
	}

	if err := s.threadRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	if s.notifications != nil && parent.AuthorID != author.ID {
		_ = s.notifications.CreateNotification(ctx, &model.Notification{
			UserID:     parent.AuthorID,
			ActorID:    author.ID,
			EntityID:   parent.ID.String(),
			EntityType: "thread",
			Type:       "reply",
			Message:    fmt.Sprintf("%s replied to your thread", author.Name),
		})
	}

	comment.Author = *author
	return toThreadResponse(comment), nil
}

// DeleteThread removes a thread and every descendant reply. Like message
// deletion, there is no server-side authorship check; the client guards it.
func (s *threadService) DeleteThread(ctx context.Context, threadID uuid.UUID) error {
	if _, err := s.threadRepo.FindByID(ctx, threadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: thread not found", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to fetch thread: %w", err)
	}

	ids, err := expandDescendants(ctx, s.threadRepo, []uuid.UUID{threadID})
	if err != nil {
		return fmt.Errorf("failed to collect thread replies: %w", err)
	}

	if err := s.threadRepo.DeleteByIDs(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}

	if s.search != nil {
		strIDs := make([]string, 0, len(ids))
		for _, id := range ids {
			strIDs = append(strIDs, id.String())
		}
		if err := s.search.DeleteThreads(strIDs); err != nil {
			log.Printf("failed to remove threads from index: %v", err)
		}
	}

	return nil
}

func (s *threadService) LikeThread(ctx context.Context, threadID uuid.UUID, userAuthID string) (*dto.LikeResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: thread not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}

	user, err := s.userRepo.FindByAuthID(ctx, userAuthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	liked, err := s.threadRepo.HasLike(ctx, thread.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check like: %w", err)
	}

	if liked {
		err = s.threadRepo.RemoveLike(ctx, thread.ID, user.ID)
	} else {
		err = s.threadRepo.AddLike(ctx, thread.ID, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	count, err := s.threadRepo.CountLikes(ctx, thread.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	if !liked && s.notifications != nil && thread.AuthorID != user.ID {
		_ = s.notifications.CreateNotification(ctx, &model.Notification{
			UserID:     thread.AuthorID,
			ActorID:    user.ID,
			EntityID:   thread.ID.String(),
			EntityType: "thread",
			Type:       "like",
			Message:    fmt.Sprintf("%s liked your thread", user.Name),
		})
	}

	return &dto.LikeResponse{Liked: !liked, LikeCount: int(count)}, nil
}

func (s *threadService) FetchPosts(ctx context.Context, page, pageSize int) (*dto.PaginatedThreadResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultThreadPageSize
	}

	offset := (page - 1) * pageSize
	threads, total, err := s.threadRepo.FindRoots(ctx, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	posts := make([]dto.ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		posts = append(posts, *toThreadResponse(thread))
	}

	return &dto.PaginatedThreadResponse{
		Posts:  posts,
		IsNext: total > int64(offset+len(threads)),
	}, nil
}

func (s *threadService) FetchThreadByID(ctx context.Context, threadID uuid.UUID) (*dto.ThreadDetailResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: thread not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}
	return toThreadDetailResponse(thread), nil
}

func toThreadResponse(t *model.Thread) *dto.ThreadResponse {
	resp := &dto.ThreadResponse{
		ID:        t.ID.String(),
		Text:      t.Text,
		Author:    toUserSummary(&t.Author),
		Community: toCommunitySummary(t.Community),
		Likes:     authIDs(t.Likes),
		CreatedAt: formatTime(t.CreatedAt),
	}
	if t.ParentID != nil {
		parentID := t.ParentID.String()
		resp.ParentID = &parentID
	}
	resp.Children = make([]dto.ChildPreview, 0, len(t.Children))
	for i := range t.Children {
		resp.Children = append(resp.Children, dto.ChildPreview{
			Author: toUserSummary(&t.Children[i].Author),
		})
	}
	return resp
}

func toThreadDetailResponse(t *model.Thread) *dto.ThreadDetailResponse {
	resp := &dto.ThreadDetailResponse{
		ID:        t.ID.String(),
		Text:      t.Text,
		Author:    toUserSummary(&t.Author),
		Community: toCommunitySummary(t.Community),
		Likes:     authIDs(t.Likes),
		CreatedAt: formatTime(t.CreatedAt),
	}
	if t.ParentID != nil {
		parentID := t.ParentID.String()
		resp.ParentID = &parentID
	}
	resp.Children = make([]dto.ThreadDetailResponse, 0, len(t.Children))
	for i := range t.Children {
		resp.Children = append(resp.Children, *toThreadDetailResponse(&t.Children[i]))
	}
	return resp
}
