package dto

type InsightsResponse struct {
	// Source is "ai" when Gemini produced the content, "fallback" otherwise.
	Source   string   `json:"source"`
	Insights []string `json:"insights"`
}

type RecommendedEvent struct {
	EventID  uint   `json:"event_id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

type RecommendationsResponse struct {
	Source string             `json:"source"`
	Events []RecommendedEvent `json:"events"`
}

type SuggestTitlesInput struct {
	Topic    string `json:"topic" binding:"required,min=3,max=200"`
	Category string `json:"category" binding:"omitempty,max=50"`
}

type TitleSuggestionsResponse struct {
	Source string   `json:"source"`
	Titles []string `json:"titles"`
}
