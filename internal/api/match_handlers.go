package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
	"github.com/shiftmatch/shiftmatch-server/internal/service"
)

func (s *Server) registerMatchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "matchShifts",
		Method:      http.MethodPost,
		Path:        "/api/v1/match",
		Summary:     "Match shifts",
		Description: "Logs into the member portal, extracts today's shifts, and scores them against the given preferences",
		Tags:        []string{"Match"},
	}, s.handleMatch)

	huma.Register(s.api, huma.Operation{
		OperationID: "rescoreShifts",
		Method:      http.MethodPost,
		Path:        "/api/v1/rescore",
		Summary:     "Rescore shifts",
		Description: "Re-ranks previously returned shifts against new preferences without contacting the portal",
		Tags:        []string{"Match"},
	}, s.handleRescore)

	huma.Register(s.api, huma.Operation{
		OperationID: "sampleShifts",
		Method:      http.MethodPost,
		Path:        "/api/v1/sample",
		Summary:     "Score sample shifts",
		Description: "Scores generated sample shifts, useful for trying the matcher without portal credentials",
		Tags:        []string{"Match"},
	}, s.handleSample)
}

// MatchInput wraps the match request body.
type MatchInput struct {
	Body service.MatchRequest
}

// MatchOutput wraps the match response body.
type MatchOutput struct {
	Body service.MatchResponse
}

func (s *Server) handleMatch(ctx context.Context, input *MatchInput) (*MatchOutput, error) {
	resp, err := s.matchService.Match(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &MatchOutput{Body: *resp}, nil
}

// RescoreInput wraps the rescore request body.
type RescoreInput struct {
	Body service.RescoreRequest
}

func (s *Server) handleRescore(ctx context.Context, input *RescoreInput) (*MatchOutput, error) {
	resp, err := s.matchService.Rescore(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &MatchOutput{Body: *resp}, nil
}

// SampleInput carries only preferences.
type SampleInput struct {
	Body struct {
		Preferences domain.Preferences `json:"preferences,omitempty"`
	}
}

func (s *Server) handleSample(ctx context.Context, input *SampleInput) (*MatchOutput, error) {
	resp, err := s.matchService.Sample(ctx, input.Body.Preferences)
	if err != nil {
		return nil, err
	}
	return &MatchOutput{Body: *resp}, nil
}

// registerRawRoutes serves cached portal pages as plain HTML, outside huma
// since the response is not JSON.
func (s *Server) registerRawRoutes() {
	s.router.Get("/api/v1/raw/{token}", s.handleRawHTML)
}

func (s *Server) handleRawHTML(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	html, err := s.matchService.RawHTML(r.Context(), token)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"EXPIRED","message":"raw HTML expired or not found"}`))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
