package dashboard

import (
	"context"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Collect(ctx)
}
