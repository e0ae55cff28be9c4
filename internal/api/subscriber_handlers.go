package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
	"github.com/shiftmatch/shiftmatch-server/internal/service"
)

func (s *Server) registerSubscriberRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "subscribe",
		Method:      http.MethodPost,
		Path:        "/api/v1/subscribers",
		Summary:     "Subscribe to the daily digest",
		Description: "Enrolls a member in the daily digest email, or updates an existing subscription for the same email",
		Tags:        []string{"Subscribers"},
	}, s.handleSubscribe)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSubscribers",
		Method:      http.MethodGet,
		Path:        "/api/v1/subscribers",
		Summary:     "List subscribers",
		Description: "Lists all digest subscribers without their stored credentials",
		Tags:        []string{"Subscribers"},
	}, s.handleListSubscribers)
}

// SubscribeInput wraps the subscribe request body.
type SubscribeInput struct {
	Body service.SubscribeRequest
}

// SubscribeOutput wraps the subscribe response body.
type SubscribeOutput struct {
	Body service.SubscribeResponse
}

func (s *Server) handleSubscribe(ctx context.Context, input *SubscribeInput) (*SubscribeOutput, error) {
	resp, err := s.subscriberService.Subscribe(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &SubscribeOutput{Body: *resp}, nil
}

// SubscriberSummary is a subscriber without credential material.
type SubscriberSummary struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	MemberNumber string             `json:"memberNumber"`
	Preferences  domain.Preferences `json:"preferences"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// ListSubscribersOutput wraps the subscriber list.
type ListSubscribersOutput struct {
	Body struct {
		Subscribers []SubscriberSummary `json:"subscribers"`
		Count       int                 `json:"count"`
	}
}

func (s *Server) handleListSubscribers(ctx context.Context, _ *struct{}) (*ListSubscribersOutput, error) {
	subs, err := s.subscriberService.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListSubscribersOutput{}
	out.Body.Subscribers = make([]SubscriberSummary, 0, len(subs))
	for _, sub := range subs {
		out.Body.Subscribers = append(out.Body.Subscribers, SubscriberSummary{
			ID:           sub.ID,
			Email:        sub.Email,
			MemberNumber: sub.MemberNumber,
			Preferences:  sub.Preferences,
			CreatedAt:    sub.CreatedAt,
			UpdatedAt:    sub.UpdatedAt,
		})
	}
	out.Body.Count = len(out.Body.Subscribers)
	return out, nil
}
