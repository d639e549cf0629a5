package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/socialnet/friends-api/internal/core/domain"
	"github.com/socialnet/friends-api/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// UserService implements directory use cases.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Search returns one page of users matching the keyword. When the full match
// set is empty it returns domain.ErrNoSearchResults rather than an empty page.
func (s *UserService) Search(ctx context.Context, input ports.SearchUsersInput) (*ports.SearchUsersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	keyword := strings.TrimSpace(input.Keyword)

	items, total, err := s.repo.Search(ctx, keyword, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Str("keyword", keyword).Msg("user search failed")
		return nil, err
	}
	if total == 0 {
		return nil, domain.ErrNoSearchResults
	}

	return &ports.SearchUsersResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}
