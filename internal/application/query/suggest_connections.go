package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/mentorship-engine/internal/application/matching"
	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/metrics"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUGGEST CONNECTIONS QUERY
// "Люди, которых вы можете знать" - ранжирование по общим интересам.
// ══════════════════════════════════════════════════════════════════════════════

// SuggestConnectionsQuery содержит параметры запроса.
type SuggestConnectionsQuery struct {
	UserID string `validate:"required"`
	// Limit - 0 означает значение по умолчанию (10), больше 50 обрезается.
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q SuggestConnectionsQuery) Validate() error {
	return validateStruct("SuggestConnections", q)
}

// SuggestionDTO - одна рекомендация.
type SuggestionDTO struct {
	UserID          string   `json:"user_id"`
	FullName        string   `json:"full_name"`
	University      string   `json:"university,omitempty"`
	Score           float64  `json:"score"`
	CommonInterests []string `json:"common_interests"`
	Reason          string   `json:"reason"`
	RankPosition    int      `json:"rank_position"`
}

// SuggestionsDTO - результат запроса.
type SuggestionsDTO struct {
	Suggestions []SuggestionDTO `json:"suggestions"`
	Message     string          `json:"message,omitempty"`
}

// SuggestConnectionsHandler обрабатывает SuggestConnectionsQuery.
type SuggestConnectionsHandler struct {
	engine *matching.SuggestionEngine
}

// NewSuggestConnectionsHandler создаёт обработчик.
func NewSuggestConnectionsHandler(engine *matching.SuggestionEngine) *SuggestConnectionsHandler {
	return &SuggestConnectionsHandler{engine: engine}
}

// Handle выполняет запрос.
func (h *SuggestConnectionsHandler) Handle(ctx context.Context, q SuggestConnectionsQuery) (*SuggestionsDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("suggest_connections: %w", err)
	}

	res, err := h.engine.Suggest(ctx, mentorship.UserID(q.UserID), q.Limit)
	if err != nil {
		metrics.RecordSuggestions("error")
		return nil, fmt.Errorf("suggest_connections: %w", err)
	}

	switch {
	case res.Message != "" && len(res.Suggestions) == 0:
		metrics.RecordSuggestions("incomplete_profile")
	case len(res.Suggestions) == 0:
		metrics.RecordSuggestions("empty")
	default:
		metrics.RecordSuggestions("ok")
	}

	out := &SuggestionsDTO{
		Suggestions: make([]SuggestionDTO, 0, len(res.Suggestions)),
		Message:     res.Message,
	}
	for _, s := range res.Suggestions {
		out.Suggestions = append(out.Suggestions, SuggestionDTO{
			UserID:          s.UserID.String(),
			FullName:        s.FullName,
			University:      s.University,
			Score:           s.Score,
			CommonInterests: s.CommonInterests,
			Reason:          s.Reason,
			RankPosition:    s.RankPosition,
		})
	}
	return out, nil
}
