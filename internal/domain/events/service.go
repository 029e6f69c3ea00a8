package events

import (
	"context"

	"github.com/crashmonitor/server/internal/domain/ids"
	"github.com/rs/zerolog"
)

// Service composes validation and persistence for the event subsystem.
// The repository is constructor-injected so tests can substitute an
// in-memory implementation.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// Ingest validates and persists a single event. Validation failures reject
// the payload before any store interaction.
func (s *Service) Ingest(ctx context.Context, input Payload) (*Event, error) {
	payload, err := Validate(input)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Insert(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("event_id", event.ID).
		Str("app_id", event.Payload.AppID).
		Str("level", event.Payload.Level).
		Msg("event ingested")
	return event, nil
}

// List returns stored events matching the filters, newest first.
func (s *Service) List(ctx context.Context, filters Filters, pagination Pagination) ([]Event, error) {
	return s.repo.List(ctx, filters, pagination)
}

// GetByID returns a single event. ErrInvalidID is reported for identifiers
// that are not ULID-shaped, regardless of whether anything exists.
func (s *Service) GetByID(ctx context.Context, id string) (*Event, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, ids.Normalize(id))
}
