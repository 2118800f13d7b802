package service

import (
	"encoding/json"
	"fmt"
	"log"

	"campus.clubhub.id/clubhub/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

const eventIndex = "events"

// EventSearchService keeps the Meilisearch event index in sync and answers
// keyword queries. Callers fall back to SQL when it is unavailable.
type EventSearchService interface {
	IndexEvent(event *model.Event) error
	DeleteEvent(id uint) error
	SearchEventIDs(query, category string, limit int) ([]uint, error)
}

type eventSearchService struct {
	client meilisearch.ServiceManager
}

func NewEventSearchService(client meilisearch.ServiceManager) EventSearchService {
	s := &eventSearchService{client: client}
	s.initIndex()
	return s
}

func (s *eventSearchService) initIndex() {
	filterableAttrs := []string{"category", "club_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(eventIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update events filterable attributes: %v", err)
	}

	sortableAttrs := []string{"date"}
	if _, err := s.client.Index(eventIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update events sortable attributes: %v", err)
	}

	log.Println("Meilisearch event index initialized")
}

type meiliEventDoc struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	ClubID      uint   `json:"club_id"`
	ClubName    string `json:"club_name"`
	Date        int64  `json:"date"`
}

func (s *eventSearchService) IndexEvent(event *model.Event) error {
	doc := meiliEventDoc{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		Category:    event.Club.Category,
		ClubID:      event.ClubID,
		ClubName:    event.Club.Name,
		Date:        event.Date.Unix(),
	}

	task, err := s.client.Index(eventIndex).AddDocuments([]meiliEventDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed event %d, task id: %d", event.ID, task.TaskUID)
	return nil
}

func (s *eventSearchService) DeleteEvent(id uint) error {
	_, err := s.client.Index(eventIndex).DeleteDocument(fmt.Sprintf("%d", id))
	return err
}

func (s *eventSearchService) SearchEventIDs(query, category string, limit int) ([]uint, error) {
	req := &meilisearch.SearchRequest{
		Limit: int64(limit),
	}
	if category != "" {
		req.Filter = fmt.Sprintf("category = %q", category)
	}

	res, err := s.client.Index(eventIndex).Search(query, req)
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON to stay independent of the hit representation.
	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, err
	}
	var docs []meiliEventDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
