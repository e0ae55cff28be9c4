package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftmatch/shiftmatch-server/internal/auth"
	"github.com/shiftmatch/shiftmatch-server/internal/domain"
	"github.com/shiftmatch/shiftmatch-server/internal/match"
	"github.com/shiftmatch/shiftmatch-server/internal/portal"
	"github.com/shiftmatch/shiftmatch-server/internal/shifts"
	"github.com/shiftmatch/shiftmatch-server/internal/store"
)

// DigestSender delivers one rendered digest. Satisfied by mailer.Mailer.
type DigestSender interface {
	SendDigest(ctx context.Context, recipient string, matches []domain.ScoredShift) error
}

// DigestService runs the daily crawl-score-email round over all subscribers.
type DigestService struct {
	dialer    *portal.Dialer
	store     *store.Store
	sealer    *auth.Sealer
	sender    DigestSender
	extractor *shifts.Extractor
	logger    *slog.Logger
	topN      int
}

// NewDigestService creates a digest service.
func NewDigestService(
	dialer *portal.Dialer,
	st *store.Store,
	sealer *auth.Sealer,
	sender DigestSender,
	logger *slog.Logger,
	topN int,
) *DigestService {
	return &DigestService{
		dialer:    dialer,
		store:     st,
		sealer:    sealer,
		sender:    sender,
		extractor: shifts.NewExtractor(dialer.BaseOrigin(), domain.DefaultCommittees, logger),
		logger:    logger,
		topN:      topN,
	}
}

// RunResult summarizes one digest round.
type RunResult struct {
	Subscribers int
	Sent        int
	Failed      int
}

// Run processes every subscriber. Per-subscriber failures are logged and
// counted but never abort the round.
func (s *DigestService) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	for sub, err := range s.store.Subscribers.List(ctx) {
		if err != nil {
			return result, fmt.Errorf("list subscribers: %w", err)
		}
		result.Subscribers++

		if err := s.processSubscriber(ctx, sub); err != nil {
			result.Failed++
			s.logger.Warn("digest failed for subscriber",
				"subscriber_id", sub.ID,
				"error", err,
			)
			continue
		}
		result.Sent++
	}

	s.logger.Info("digest run complete",
		"subscribers", result.Subscribers,
		"sent", result.Sent,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *DigestService) processSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	password, err := s.sealer.Open(sub.PortalPassword)
	if err != nil {
		return fmt.Errorf("open sealed password: %w", err)
	}

	session, err := s.dialer.NewSession()
	if err != nil {
		return fmt.Errorf("open portal session: %w", err)
	}

	if err := session.Login(ctx, sub.MemberNumber, password); err != nil {
		return fmt.Errorf("portal login: %w", err)
	}

	page, err := session.FetchShiftsPage(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("fetch shifts page: %w", err)
	}

	extracted, err := s.extractor.Extract(page)
	if errors.Is(err, shifts.ErrNoShifts) {
		// Nothing to recommend today. Skipping beats an empty email.
		s.logger.Info("no shifts extracted, skipping digest", "subscriber_id", sub.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("extract shifts: %w", err)
	}

	top := match.New(sub.Preferences).Top(extracted, s.topN)
	if len(top) == 0 {
		s.logger.Info("no matches after ranking, skipping digest", "subscriber_id", sub.ID)
		return nil
	}

	return s.sender.SendDigest(ctx, sub.Email, top)
}
