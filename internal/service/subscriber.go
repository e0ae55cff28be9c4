package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftmatch/shiftmatch-server/internal/auth"
	"github.com/shiftmatch/shiftmatch-server/internal/domain"
	"github.com/shiftmatch/shiftmatch-server/internal/id"
	"github.com/shiftmatch/shiftmatch-server/internal/store"
	"github.com/shiftmatch/shiftmatch-server/internal/validation"
)

// SubscriberService manages daily digest subscriptions.
type SubscriberService struct {
	store     *store.Store
	sealer    *auth.Sealer
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSubscriberService creates a subscriber service.
func NewSubscriberService(st *store.Store, sealer *auth.Sealer, validator *validation.Validator, logger *slog.Logger) *SubscriberService {
	return &SubscriberService{
		store:     st,
		sealer:    sealer,
		validator: validator,
		logger:    logger,
	}
}

// SubscribeRequest enrolls a member in the daily digest.
type SubscribeRequest struct {
	Email        string             `json:"email" validate:"required,email"`
	MemberNumber string             `json:"memberNumber" validate:"required"`
	Password     string             `json:"password" validate:"required"`
	Preferences  domain.Preferences `json:"preferences,omitempty"`
}

// SubscribeResponse reports the stored subscription.
type SubscribeResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Created bool   `json:"created"`
}

// Subscribe upserts a subscription keyed by email. The portal password is
// sealed before it is stored.
func (s *SubscriberService) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sealed, err := s.sealer.Seal(req.Password)
	if err != nil {
		return nil, fmt.Errorf("seal portal password: %w", err)
	}

	now := time.Now().UTC()

	existing, err := s.store.GetSubscriberByEmail(ctx, req.Email)
	switch {
	case err == nil:
		existing.MemberNumber = req.MemberNumber
		existing.PortalPassword = sealed
		existing.Preferences = req.Preferences
		existing.UpdatedAt = now
		if err := s.store.Subscribers.Update(ctx, existing.ID, existing); err != nil {
			return nil, fmt.Errorf("update subscriber: %w", err)
		}
		s.logger.Info("subscription updated", "subscriber_id", existing.ID)
		return &SubscribeResponse{ID: existing.ID, Email: existing.Email, Created: false}, nil

	case errors.Is(err, store.ErrNotFound):
		subID, err := id.Generate("sub")
		if err != nil {
			return nil, fmt.Errorf("generate subscriber ID: %w", err)
		}

		sub := &domain.Subscriber{
			ID:             subID,
			Email:          req.Email,
			MemberNumber:   req.MemberNumber,
			PortalPassword: sealed,
			Preferences:    req.Preferences,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.store.Subscribers.Create(ctx, subID, sub); err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}
		s.logger.Info("subscription created", "subscriber_id", subID)
		return &SubscribeResponse{ID: subID, Email: req.Email, Created: true}, nil

	default:
		return nil, fmt.Errorf("look up subscriber: %w", err)
	}
}

// List returns all subscribers.
func (s *SubscriberService) List(ctx context.Context) ([]*domain.Subscriber, error) {
	var subs []*domain.Subscriber
	for sub, err := range s.store.Subscribers.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list subscribers: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
