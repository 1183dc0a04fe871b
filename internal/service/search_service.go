package service

import (
	"log"

	"cryptoheaven.app/api/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// SearchService keeps the Meilisearch indexes in sync with the store.
// Indexing happens on the write path; failures are logged, never fatal.
type SearchService interface {
	IndexCommunity(community *model.Community) error
	DeleteCommunity(externalID string) error
	IndexThread(thread *model.Thread) error
	DeleteThreads(ids []string) error
}

type meiliCommunityDoc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	IsPrivate bool   `json:"is_private"`
}

type meiliThreadDoc struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	CommunityID string `json:"community_id,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	communityAttrs := []any{"is_private"}
	if _, err := s.client.Index("communities").UpdateFilterableAttributes(&communityAttrs); err != nil {
		log.Printf("Failed to update communities filterable attributes: %v", err)
	}

	threadAttrs := []any{"community_id"}
	if _, err := s.client.Index("threads").UpdateFilterableAttributes(&threadAttrs); err != nil {
		log.Printf("Failed to update threads filterable attributes: %v", err)
	}
}

func (s *searchService) IndexCommunity(community *model.Community) error {
	doc := meiliCommunityDoc{
		ID:        community.ExternalID,
		Name:      s.sanitizer.Sanitize(community.Name),
		Username:  community.Username,
		Bio:       s.sanitizer.Sanitize(community.Bio),
		IsPrivate: community.IsPrivate,
	}
	_, err := s.client.Index("communities").AddDocuments([]meiliCommunityDoc{doc}, strPtr("id"))
	return err
}

func (s *searchService) DeleteCommunity(externalID string) error {
	_, err := s.client.Index("communities").DeleteDocument(externalID)
	return err
}

func (s *searchService) IndexThread(thread *model.Thread) error {
	doc := meiliThreadDoc{
		ID:        thread.ID.String(),
		Text:      s.sanitizer.Sanitize(thread.Text),
		CreatedAt: thread.CreatedAt.Unix(),
	}
	if thread.CommunityID != nil {
		doc.CommunityID = thread.CommunityID.String()
	}
	_, err := s.client.Index("threads").AddDocuments([]meiliThreadDoc{doc}, strPtr("id"))
	return err
}

func (s *searchService) DeleteThreads(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.client.Index("threads").DeleteDocuments(ids)
	return err
}

func strPtr(s string) *string {
	return &s
}
