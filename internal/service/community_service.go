package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cryptoheaven.app/api/internal/dto"
	"cryptoheaven.app/api/internal/model"
	"cryptoheaven.app/api/internal/repository"
	"cryptoheaven.app/api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommunityService interface {
	CreateCommunity(ctx context.Context, creatorAuthID string, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error)
	GetCommunityDetails(ctx context.Context, externalID string) (*dto.CommunityResponse, error)
	ListCommunities(ctx context.Context, filter dto.CommunityFilter) (*dto.PaginatedCommunityResponse, error)
	UpdateCommunityInfo(ctx context.Context, externalID string, req dto.UpdateCommunityRequest) (*dto.CommunityResponse, error)
	DeleteCommunity(ctx context.Context, externalID, actorAuthID string) error

	Join(ctx context.Context, externalID, userAuthID string) (*dto.StatusResponse, error)
	Leave(ctx context.Context, externalID, userAuthID string) (*dto.StatusResponse, error)
	ApproveJoinRequest(ctx context.Context, externalID, userAuthID, approverAuthID string) (*dto.StatusResponse, error)
	RejectJoinRequest(ctx context.Context, externalID, userAuthID, rejecterAuthID string) (*dto.StatusResponse, error)
	AddCommunityAdmin(ctx context.Context, externalID, userAuthID, actorAuthID string) (*dto.StatusResponse, error)
}

type communityService struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	threadRepo    repository.ThreadRepository
	notifications NotificationService
	search        SearchService
}

func NewCommunityService(
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	threadRepo repository.ThreadRepository,
	notifications NotificationService,
	search SearchService,
) CommunityService {
	return &communityService{
		communityRepo: communityRepo,
		userRepo:      userRepo,
		threadRepo:    threadRepo,
		notifications: notifications,
		search:        search,
	}
}

// canModerate is the single capability check for privileged community
// operations: the actor must be an admin or the creator.
func (s *communityService) canModerate(ctx context.Context, community *model.Community, actorID uuid.UUID) (bool, error) {
	if community.CreatedByID == actorID {
		return true, nil
	}
	return s.communityRepo.IsAdmin(ctx, community.ID, actorID)
}

func (s *communityService) CreateCommunity(ctx context.Context, creatorAuthID string, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	existing, err := s.communityRepo.FindByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check community username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username already taken", apperror.ErrConflict)
	}

	creator, err := s.userRepo.FindByAuthID(ctx, creatorAuthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch creator: %w", err)
	}

	community := &model.Community{
		ExternalID:  req.ID,
		Name:        req.Name,
		Username:    req.Username,
		ImageURL:    req.Image,
		Bio:         req.Bio,
		IsPrivate:   req.IsPrivate,
		CreatedByID: creator.ID,
		// The creator starts out as both member and admin.
		Members: []model.User{*creator},
		Admins:  []model.User{*creator},
	}

	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	if s.search != nil {
		if err := s.search.IndexCommunity(community); err != nil {
			log.Printf("failed to index community %s: %v", community.ExternalID, err)
		}
	}

	community.CreatedBy = *creator
	return toCommunityResponse(community, true), nil
}

func (s *communityService) GetCommunityDetails(ctx context.Context, externalID string) (*dto.CommunityResponse, error) {
	community, err := s.findCommunity(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return toCommunityResponse(community, true), nil
}

func (s *communityService) ListCommunities(ctx context.Context, filter dto.CommunityFilter) (*dto.PaginatedCommunityResponse, error) {
	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	communities, total, err := s.communityRepo.FindAll(ctx, filter.Search, filter.SortBy, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch communities: %w", err)
	}

	responses := make([]dto.CommunityResponse, 0, len(communities))
	for _, community := range communities {
		responses = append(responses, *toCommunityResponse(community, false))
	}

	return &dto.PaginatedCommunityResponse{
		Communities: responses,
		IsNext:      total > int64(offset+len(communities)),
	}, nil
}

func (s *communityService) UpdateCommunityInfo(ctx context.Context, externalID string, req dto.UpdateCommunityRequest) (*dto.CommunityResponse, error) {
	community, err := s.findCommunity(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if req.Username != community.Username {
		existing, err := s.communityRepo.FindByUsername(ctx, req.Username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check community username: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: username already taken", apperror.ErrConflict)
		}
	}

	community.Name = req.Name
	community.Username = req.Username
	community.ImageURL = req.Image

	if err := s.communityRepo.Update(ctx, community); err != nil {
		return nil, fmt.Errorf("failed to update community: %w", err)
	}

	if s.search != nil {
		if err := s.search.IndexCommunity(community); err != nil {
			log.Printf("failed to reindex community %s: %v", community.ExternalID, err)
		}
	}

	return toCommunityResponse(community, true), nil
}

func (s *communityService) DeleteCommunity(ctx context.Context, externalID, actorAuthID string) error {
	community, err := s.findCommunity(ctx, externalID)
	if err != nil {
		return err
	}

	actor, err := s.findUser(ctx, actorAuthID)
	if err != nil {
		return err
	}
	allowed, err := s.canModerate(ctx, community, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check permissions: %w", err)
	}
	if !allowed {
		return fmt.Errorf("%w: not authorized to delete this community", apperror.ErrForbidden)
	}

	// Gather every thread in the community plus all reply descendants so no
	// orphan replies survive the community.
	threadIDs, err := s.threadRepo.FindIDsByCommunity(ctx, community.ID)
	if err != nil {
		return fmt.Errorf("failed to collect community threads: %w", err)
	}
	allIDs, err := expandDescendants(ctx, s.threadRepo, threadIDs)
	if err != nil {
		return fmt.Errorf("failed to collect thread replies: %w", err)
	}
	if err := s.threadRepo.DeleteByIDs(ctx, allIDs); err != nil {
		return fmt.Errorf("failed to delete community threads: %w", err)
	}

	if err := s.communityRepo.Delete(ctx, community); err != nil {
		return fmt.Errorf("failed to delete community: %w", err)
	}

	if s.search != nil {
		if err := s.search.DeleteCommunity(community.ExternalID); err != nil {
			log.Printf("failed to remove community %s from index: %v", community.ExternalID, err)
		}
		ids := make([]string, 0, len(allIDs))
		for _, id := range allIDs {
			ids = append(ids, id.String())
		}
		if err := s.search.DeleteThreads(ids); err != nil {
			log.Printf("failed to remove community threads from index: %v", err)
		}
	}

	return nil
}

func (s *communityService) Join(ctx context.Context, externalID, userAuthID string) (*dto.StatusResponse, error) {
	community, err := s.findCommunity(ctx, externalID)
	if err != nil {
		return nil, err
	}
	user, err := s.findUser(ctx, userAuthID)
	if err != nil {
		return nil, err
	}

	if community.IsPrivate {
		// An existing member must never end up back in the request queue.
		isMember, err := s.communityRepo.IsMember(ctx, community.ID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if isMember {
			return &dto.StatusResponse{Status: "joined"}, nil
		}

		pending, err := s.communityRepo.HasJoinRequest(ctx, community.ID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check join requests: %w", err)
		}
		if !pending {
			if err := s.communityRepo.AddJoinRequest(ctx, community.ID, user.ID); err != nil {
				return nil, fmt.Errorf("failed to add join request: %w", err)
			}
			s.notify(ctx, &model.Notification{
				UserID:     community.CreatedByID,
				ActorID:    user.ID,
				EntityID:   community.ExternalID,
				EntityType: "community",
				Type:       "join_request",
				Message:    fmt.Sprintf("%s requested to join %s", user.Name, community.Name),
			})
		}
		return &dto.StatusResponse{Status: "requested"}, nil
	}

	if err := s.communityRepo.AddMember(ctx, community.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return &dto.StatusResponse{Status: "joined"}, nil
}

func (s *communityService) Leave(ctx context.Context, externalID, userAuthID string) (*dto.StatusResponse, error) {
	community, err := s.findCommunity(ctx, externalID)
	if err != nil {
		return nil, err
	}
	user, err := s.findUser(ctx, userAuthID)
	if err != nil {
		return nil, err
	}

	// No membership check: leaving a community you are not in is a no-op.
	if err := s.communityRepo.RemoveMember(ctx, community.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}
	return &dto.StatusResponse{Status: "left"}, nil
}

func (s *communityService) ApproveJoinRequest(ctx context.Context, externalID, userAuthID, approverAuthID string) (*dto.StatusResponse, error) {
	community, err := s.findCommunity(ctx, externalID)
	if err != nil {
		return nil, err
	}
	user, err := s.findUser(ctx, userAuthID)
	if err != nil {
		return nil, err
	}
	approver, err := s.findUser(ctx, approverAuthID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canModerate(ctx, community, approver.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permissions: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: not authorized to approve requests", apperror.ErrForbidden)
	}

	if err := s.communityRepo.PromoteRequest(ctx, community.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to approve join request: %w", err)
	}

	s.notify(ctx, &model.Notification{
		UserID:     user.ID,
		ActorID:    approver.ID,
		EntityID:   community.ExternalID,
		EntityType: "community",
		Type:       "request_approved",
		Message:    fmt.Sprintf("Your request to join %s was approved", community.Name),
	})

	return &dto.StatusResponse{Status: "approved"}, nil
}

func (s *communityService) RejectJoinRequest(ctx context.Context, externalID, userAuthID, rejecterAuthID string) (*dto.StatusResponse, error) {
	community, err := s.findCommunity(ctx, externalID)
	if err != nil {
		return nil, err
	}
	rejecter, err := s.findUser(ctx, rejecterAuthID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canModerate(ctx, community, rejecter.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permissions: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: not authorized to reject requests", apperror.ErrForbidden)
	}

	user, err := s.findUser(ctx, userAuthID)
	if err != nil {
		return nil, err
	}
	if err := s.communityRepo.RemoveJoinRequest(ctx, community.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to reject join request: %w", err)
	}

	return &dto.StatusResponse{Status: "rejected"}, nil
}

func (s *communityService) AddCommunityAdmin(ctx context.Context, externalID, userAuthID, actorAuthID string) (*dto.StatusResponse, error) {
	community, err := s.findCommunity(ctx, externalID)
	if err != nil {
		return nil, err
	}
	user, err := s.findUser(ctx, userAuthID)
	if err != nil {
		return nil, err
	}
	actor, err := s.findUser(ctx, actorAuthID)
	if err != nil {
		return nil, err
	}

	// Stricter than approve/reject: only the creator may promote admins.
	if community.CreatedByID != actor.ID {
		return nil, fmt.Errorf("%w: only the creator can add admins", apperror.ErrForbidden)
	}

	if err := s.communityRepo.AddAdmin(ctx, community.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to add admin: %w", err)
	}

	return &dto.StatusResponse{Status: "added"}, nil
}

func (s *communityService) findCommunity(ctx context.Context, externalID string) (*model.Community, error) {
	community, err := s.communityRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: community not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch community: %w", err)
	}
	return community, nil
}

func (s *communityService) findUser(ctx context.Context, authID string) (*model.User, error) {
	user, err := s.userRepo.FindByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

func (s *communityService) notify(ctx context.Context, notification *model.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create notification: %v", err)
	}
}

// expandDescendants walks the reply forest breadth-first from the given
// roots. Iterative frontier expansion, no recursion.
func expandDescendants(ctx context.Context, repo repository.ThreadRepository, roots []uuid.UUID) ([]uuid.UUID, error) {
	all := append([]uuid.UUID{}, roots...)
	frontier := roots
	for len(frontier) > 0 {
		children, err := repo.FindChildIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}
		all = append(all, children...)
		frontier = children
	}
	return all, nil
}

func toCommunityResponse(c *model.Community, detailed bool) *dto.CommunityResponse {
	resp := &dto.CommunityResponse{
		ID:        c.ExternalID,
		Name:      c.Name,
		Username:  c.Username,
		Image:     c.ImageURL,
		Bio:       c.Bio,
		IsPrivate: c.IsPrivate,
		CreatedBy: toUserSummary(&c.CreatedBy),
		Members:   toUserSummaries(c.Members),
		CreatedAt: formatTime(c.CreatedAt),
	}
	if detailed {
		resp.Admins = toUserSummaries(c.Admins)
		resp.JoinRequests = toUserSummaries(c.JoinRequests)
	}
	return resp
}
