package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

type HomeService struct {
	fetcher WelcomeFetcher
	logger  *logging.Logger
}

func NewHomeService(fetcher WelcomeFetcher, logger *logging.Logger) *HomeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HomeService{fetcher: fetcher, logger: logger}
}

// Welcome returns the backend's headline, or the built-in one when the backend cannot be reached or
// answers with blanks.
func (s *HomeService) Welcome(ctx context.Context) player.Welcome {
	ctx, span := startControllerSpan(ctx, "HomeService", "Welcome")
	defer span.End()

	fallback := player.DefaultWelcome()
	if s.fetcher == nil {
		return fallback
	}

	got, err := s.fetcher.Welcome(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch welcome failed, using fallback", "error", err)
		return fallback
	}

	if strings.TrimSpace(got.Title) == "" {
		got.Title = fallback.Title
	}
	if strings.TrimSpace(got.Message) == "" {
		got.Message = fallback.Message
	}
	return got
}
