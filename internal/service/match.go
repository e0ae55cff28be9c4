// Package service contains the application services behind the HTTP API
// and the digest job.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
	domainerrors "github.com/shiftmatch/shiftmatch-server/internal/errors"
	"github.com/shiftmatch/shiftmatch-server/internal/match"
	"github.com/shiftmatch/shiftmatch-server/internal/portal"
	"github.com/shiftmatch/shiftmatch-server/internal/shifts"
	"github.com/shiftmatch/shiftmatch-server/internal/store"
	"github.com/shiftmatch/shiftmatch-server/internal/validation"
)

const sampleSize = 30

// Source values reported in match responses.
const (
	SourceLive   = "live"
	SourceSample = "sample"
)

// MatchService crawls the portal and scores shifts against preferences.
type MatchService struct {
	dialer    *portal.Dialer
	store     *store.Store
	extractor *shifts.Extractor
	validator *validation.Validator
	logger    *slog.Logger
	rawTTL    time.Duration
}

// NewMatchService creates a match service.
func NewMatchService(
	dialer *portal.Dialer,
	st *store.Store,
	validator *validation.Validator,
	logger *slog.Logger,
	rawTTL time.Duration,
) *MatchService {
	return &MatchService{
		dialer:    dialer,
		store:     st,
		extractor: shifts.NewExtractor(dialer.BaseOrigin(), domain.DefaultCommittees, logger),
		validator: validator,
		logger:    logger,
		rawTTL:    rawTTL,
	}
}

// MatchRequest carries member credentials and scoring preferences.
type MatchRequest struct {
	MemberNumber string             `json:"memberNumber" validate:"required"`
	Password     string             `json:"password" validate:"required"`
	Preferences  domain.Preferences `json:"preferences,omitempty"`
}

// MatchResponse is the scored result of a crawl.
type MatchResponse struct {
	Matches  []domain.ScoredShift `json:"matches"`
	Count    int                  `json:"count"`
	Source   string               `json:"source"`
	Note     string               `json:"note,omitempty"`
	RawToken string               `json:"rawToken,omitempty"`
}

// Match logs into the portal with the member's credentials, fetches today's
// shift page, extracts and scores it. When extraction finds nothing the
// response falls back to scored sample data so the client always has
// something to show.
func (s *MatchService) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.dialer.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open portal session: %w", err)
	}

	if err := session.Login(ctx, req.MemberNumber, req.Password); err != nil {
		return nil, translatePortalError(err)
	}

	page, err := session.FetchShiftsPage(ctx, time.Now())
	if err != nil {
		return nil, translatePortalError(err)
	}

	token := uuid.NewString()
	if err := s.store.PutRawHTML(ctx, token, page, s.rawTTL); err != nil {
		// The match result is still useful without the debug page.
		s.logger.Warn("failed to cache raw html", "error", err)
		token = ""
	}

	resp := &MatchResponse{Source: SourceLive, RawToken: token}

	extracted, err := s.extractor.Extract(page)
	switch {
	case errors.Is(err, shifts.ErrNoShifts):
		s.logger.Info("extraction found no shifts, serving sample data")
		extracted = shifts.SampleShifts(s.dialer.BaseOrigin(), sampleSize)
		resp.Source = SourceSample
		resp.Note = "No live shifts could be extracted; showing sample data."
	case err != nil:
		return nil, fmt.Errorf("extract shifts: %w", err)
	}

	resp.Matches = match.New(req.Preferences).Rank(extracted)
	resp.Count = len(resp.Matches)
	return resp, nil
}

// RescoreRequest re-ranks previously returned shifts with new preferences.
type RescoreRequest struct {
	Shifts      []domain.Shift     `json:"shifts" validate:"required,min=1"`
	Preferences domain.Preferences `json:"preferences,omitempty"`
}

// Rescore re-ranks shifts without touching the portal.
func (s *MatchService) Rescore(ctx context.Context, req RescoreRequest) (*MatchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	matches := match.New(req.Preferences).Rank(req.Shifts)
	return &MatchResponse{
		Matches: matches,
		Count:   len(matches),
		Source:  SourceLive,
	}, nil
}

// Sample scores generated sample shifts, for trying the scorer without
// portal credentials.
func (s *MatchService) Sample(ctx context.Context, prefs domain.Preferences) (*MatchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := match.New(prefs).Rank(shifts.SampleShifts(s.dialer.BaseOrigin(), sampleSize))
	return &MatchResponse{
		Matches: matches,
		Count:   len(matches),
		Source:  SourceSample,
	}, nil
}

// RawHTML returns a cached portal page by token.
func (s *MatchService) RawHTML(ctx context.Context, token string) (string, error) {
	html, err := s.store.GetRawHTML(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return "", domainerrors.Expired("raw HTML expired or not found")
	}
	if err != nil {
		return "", fmt.Errorf("get raw html: %w", err)
	}
	return html, nil
}

// translatePortalError maps crawler failures onto domain errors.
func translatePortalError(err error) error {
	var fetchErr *portal.FetchError
	if !errors.As(err, &fetchErr) {
		return domainerrors.Unavailable("portal request failed").WithCause(err)
	}

	switch fetchErr.Reason {
	case portal.ReasonLoginRejected:
		return domainerrors.InvalidCredentials(fetchErr.Message)
	case portal.ReasonAuthExpired:
		return domainerrors.Unauthorized(fetchErr.Message)
	default:
		return domainerrors.Unavailable(fetchErr.Message).WithCause(err)
	}
}
