package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"campus.clubhub.id/clubhub/internal/agent/providers"
	"campus.clubhub.id/clubhub/internal/model"
	"campus.clubhub.id/clubhub/internal/modules/ai/dto"
	analyticsdto "campus.clubhub.id/clubhub/internal/modules/analytics/dto"
	analytics "campus.clubhub.id/clubhub/internal/modules/analytics/service"
	eventRepo "campus.clubhub.id/clubhub/internal/modules/event/repository"
	gamification "campus.clubhub.id/clubhub/internal/modules/gamification/service"
	"github.com/google/uuid"
)

const (
	sourceAI       = "ai"
	sourceFallback = "fallback"

	recommendationPool = 20
)

type AIService interface {
	// LeaderInsights summarizes a club's event performance for its leader.
	LeaderInsights(ctx context.Context, leaderID uuid.UUID) (*dto.InsightsResponse, error)
	// Recommendations suggests upcoming events for a participant.
	Recommendations(ctx context.Context, userID uuid.UUID) (*dto.RecommendationsResponse, error)
	// SuggestTitles proposes event titles for a topic.
	SuggestTitles(ctx context.Context, input dto.SuggestTitlesInput) (*dto.TitleSuggestionsResponse, error)
}

type aiService struct {
	llm          providers.LLMProvider
	analytics    analytics.AnalyticsService
	gamification gamification.GamificationService
	events       eventRepo.EventRepository
}

// NewAIService builds the service. llm may be nil; every operation then
// serves its data-driven fallback.
func NewAIService(
	llm providers.LLMProvider,
	analyticsSvc analytics.AnalyticsService,
	gamificationSvc gamification.GamificationService,
	events eventRepo.EventRepository,
) AIService {
	return &aiService{
		llm:          llm,
		analytics:    analyticsSvc,
		gamification: gamificationSvc,
		events:       events,
	}
}

func (s *aiService) LeaderInsights(ctx context.Context, leaderID uuid.UUID) (*dto.InsightsResponse, error) {
	attendance, err := s.analytics.LeaderAttendance(ctx, leaderID)
	if err != nil {
		return nil, err
	}

	if s.llm != nil {
		data, _ := json.Marshal(attendance)
		prompt := fmt.Sprintf(
			`You are advising a university club leader. Based on this per-event attendance data (JSON), write 3 to 5 short, concrete insights about what is working and what to improve. Respond as JSON: {"insights": ["..."]}.

Data: %s`, data)

		var out struct {
			Insights []string `json:"insights"`
		}
		if err := s.llm.GenerateStructured(ctx, prompt, &out); err == nil && len(out.Insights) > 0 {
			return &dto.InsightsResponse{Source: sourceAI, Insights: out.Insights}, nil
		} else if err != nil {
			log.Printf("LLM insights failed, using fallback: %v", err)
		}
	}

	return &dto.InsightsResponse{
		Source:   sourceFallback,
		Insights: fallbackInsights(attendance),
	}, nil
}

// fallbackInsights derives simple observations straight from the numbers.
func fallbackInsights(attendance []analyticsdto.EventAttendance) []string {
	if len(attendance) == 0 {
		return []string{"No events yet. Schedule your first event to start collecting attendance data."}
	}

	var insights []string
	var totalRate float64
	rated := 0
	best := attendance[0]

	for _, a := range attendance {
		if a.Registered > 0 {
			totalRate += a.AttendanceRate
			rated++
			if a.AttendanceRate > best.AttendanceRate {
				best = a
			}
		}
	}

	if rated > 0 {
		avg := totalRate / float64(rated)
		insights = append(insights, fmt.Sprintf("Average attendance rate across %d events is %.0f%%.", rated, avg*100))
		insights = append(insights, fmt.Sprintf("%q had your best turnout at %.0f%%.", best.Title, best.AttendanceRate*100))
		if avg < 0.5 {
			insights = append(insights, "More than half of registrants are not showing up. Day-before reminders and smaller venues could help.")
		}
	} else {
		insights = append(insights, "Your events have no registrations yet. Try promoting them earlier and adding posters.")
	}

	return insights
}

func (s *aiService) Recommendations(ctx context.Context, userID uuid.UUID) (*dto.RecommendationsResponse, error) {
	stats, err := s.gamification.StatsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming, _, err := s.events.List(ctx, eventRepo.ListFilter{Upcoming: true, Page: 1, Limit: recommendationPool})
	if err != nil {
		return nil, err
	}
	if len(upcoming) == 0 {
		return &dto.RecommendationsResponse{Source: sourceFallback, Events: []dto.RecommendedEvent{}}, nil
	}

	if s.llm != nil {
		if resp, ok := s.llmRecommendations(ctx, stats.FavoriteCategory, stats.EventsAttended, upcoming); ok {
			return resp, nil
		}
	}

	return &dto.RecommendationsResponse{
		Source: sourceFallback,
		Events: fallbackRecommendations(stats.FavoriteCategory, upcoming),
	}, nil
}

func (s *aiService) llmRecommendations(ctx context.Context, favoriteCategory string, attended int, upcoming []model.Event) (*dto.RecommendationsResponse, bool) {
	type candidate struct {
		EventID  uint   `json:"event_id"`
		Title    string `json:"title"`
		Date     string `json:"date"`
		Category string `json:"category"`
		Club     string `json:"club"`
	}
	candidates := make([]candidate, 0, len(upcoming))
	byID := make(map[uint]*model.Event, len(upcoming))
	for i := range upcoming {
		e := &upcoming[i]
		byID[e.ID] = e
		candidates = append(candidates, candidate{
			EventID:  e.ID,
			Title:    e.Title,
			Date:     e.Date.Format("2006-01-02"),
			Category: e.Club.Category,
			Club:     e.Club.Name,
		})
	}

	data, _ := json.Marshal(candidates)
	prompt := fmt.Sprintf(
		`A student has attended %d events; their favorite category is %q. From the upcoming events below (JSON), pick up to 3 they would most enjoy and explain each briefly. Respond as JSON: {"picks": [{"event_id": 1, "reason": "..."}]}.

Events: %s`, attended, favoriteCategory, data)

	var out struct {
		Picks []struct {
			EventID uint   `json:"event_id"`
			Reason  string `json:"reason"`
		} `json:"picks"`
	}
	if err := s.llm.GenerateStructured(ctx, prompt, &out); err != nil {
		log.Printf("LLM recommendations failed, using fallback: %v", err)
		return nil, false
	}

	events := make([]dto.RecommendedEvent, 0, len(out.Picks))
	for _, pick := range out.Picks {
		e, ok := byID[pick.EventID]
		if !ok {
			// The model invented an event; distrust the whole answer.
			log.Printf("LLM recommended unknown event %d, using fallback", pick.EventID)
			return nil, false
		}
		events = append(events, dto.RecommendedEvent{
			EventID:  e.ID,
			Title:    e.Title,
			Date:     e.Date.Format("2006-01-02"),
			Category: e.Club.Category,
			Reason:   pick.Reason,
		})
	}
	if len(events) == 0 {
		return nil, false
	}
	return &dto.RecommendationsResponse{Source: sourceAI, Events: events}, true
}

// fallbackRecommendations prefers the favorite category, then fills with the
// soonest events.
func fallbackRecommendations(favoriteCategory string, upcoming []model.Event) []dto.RecommendedEvent {
	sorted := make([]model.Event, len(upcoming))
	copy(sorted, upcoming)
	sort.SliceStable(sorted, func(i, j int) bool {
		iFav := sorted[i].Club.Category == favoriteCategory
		jFav := sorted[j].Club.Category == favoriteCategory
		if iFav != jFav {
			return iFav
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	limit := 3
	if len(sorted) < limit {
		limit = len(sorted)
	}

	out := make([]dto.RecommendedEvent, 0, limit)
	for _, e := range sorted[:limit] {
		reason := "Coming up soon"
		if favoriteCategory != "" && e.Club.Category == favoriteCategory {
			reason = fmt.Sprintf("Matches your favorite category (%s)", favoriteCategory)
		}
		out = append(out, dto.RecommendedEvent{
			EventID:  e.ID,
			Title:    e.Title,
			Date:     e.Date.Format("2006-01-02"),
			Category: e.Club.Category,
			Reason:   reason,
		})
	}
	return out
}

func (s *aiService) SuggestTitles(ctx context.Context, input dto.SuggestTitlesInput) (*dto.TitleSuggestionsResponse, error) {
	if s.llm != nil {
		prompt := fmt.Sprintf(
			`Suggest 5 catchy titles for a university club event about %q`, input.Topic)
		if input.Category != "" {
			prompt += fmt.Sprintf(" in the %s category", input.Category)
		}
		prompt += `. Respond as JSON: {"titles": ["..."]}.`

		var out struct {
			Titles []string `json:"titles"`
		}
		if err := s.llm.GenerateStructured(ctx, prompt, &out); err == nil && len(out.Titles) > 0 {
			return &dto.TitleSuggestionsResponse{Source: sourceAI, Titles: out.Titles}, nil
		} else if err != nil {
			log.Printf("LLM title suggestions failed, using fallback: %v", err)
		}
	}

	topic := strings.TrimSpace(input.Topic)
	return &dto.TitleSuggestionsResponse{
		Source: sourceFallback,
		Titles: []string{
			fmt.Sprintf("%s 101: Getting Started", topic),
			fmt.Sprintf("Hands-On %s Workshop", topic),
			fmt.Sprintf("%s Night: Learn, Build, Connect", topic),
			fmt.Sprintf("Intro to %s for Everyone", topic),
			fmt.Sprintf("The %s Challenge", topic),
		},
	}, nil
}
