package services

import (
	"context"
	"errors"
	"strings"

	"github.com/spiritmart/api/internal/repositories"
)

var errCatalogRepositoryRequired = errors.New("catalog service: repository is required")

// ErrCatalogInvalidInput indicates the caller supplied invalid input.
var ErrCatalogInvalidInput = errors.New("catalog service: invalid input")

// ErrCatalogNotFound indicates the requested state, school, or design does not exist.
var ErrCatalogNotFound = errors.New("catalog service: not found")

// ErrCatalogUnavailable indicates the catalog cannot be read.
var ErrCatalogUnavailable = errors.New("catalog service: unavailable")

// CatalogServiceDeps wires the repository dependency for catalog reads.
type CatalogServiceDeps struct {
	Repository repositories.CatalogRepository
	Logger     func(context.Context, string, map[string]any)
}

type catalogService struct {
	repo   repositories.CatalogRepository
	logger func(context.Context, string, map[string]any)
}

// NewCatalogService constructs a CatalogService enforcing dependency validation.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Repository == nil {
		return nil, errCatalogRepositoryRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &catalogService{repo: deps.Repository, logger: logger}, nil
}

// ListStates returns the known states, optionally narrowed by a
// case-insensitive substring filter. Order follows the repository collation.
func (s *catalogService) ListStates(ctx context.Context, filter string) ([]string, error) {
	states, err := s.repo.States(ctx)
	if err != nil {
		return nil, s.translateRepoError(err)
	}
	return filterKeys(states, filter), nil
}

// ListSchools returns the schools for a state, optionally filtered.
func (s *catalogService) ListSchools(ctx context.Context, state string, filter string) ([]string, error) {
	st := strings.TrimSpace(state)
	if st == "" {
		return nil, ErrCatalogInvalidInput
	}

	schools, err := s.repo.Schools(ctx, st)
	if err != nil {
		return nil, s.translateRepoError(err)
	}
	return filterKeys(schools, filter), nil
}

// ListDesigns returns a school's designs in catalog order.
func (s *catalogService) ListDesigns(ctx context.Context, state string, school string) ([]Design, error) {
	st := strings.TrimSpace(state)
	sc := strings.TrimSpace(school)
	if st == "" || sc == "" {
		return nil, ErrCatalogInvalidInput
	}

	designs, err := s.repo.Designs(ctx, st, sc)
	if err != nil {
		return nil, s.translateRepoError(err)
	}
	return designs, nil
}

// FindDesign resolves one design by id within a state and school.
func (s *catalogService) FindDesign(ctx context.Context, state string, school string, designID string) (Design, error) {
	st := strings.TrimSpace(state)
	sc := strings.TrimSpace(school)
	id := strings.TrimSpace(designID)
	if st == "" || sc == "" || id == "" {
		return Design{}, ErrCatalogInvalidInput
	}

	design, err := s.repo.FindDesign(ctx, st, sc, id)
	if err != nil {
		return Design{}, s.translateRepoError(err)
	}
	return design, nil
}

func (s *catalogService) translateRepoError(err error) error {
	if err == nil {
		return nil
	}
	if isRepoNotFound(err) {
		return ErrCatalogNotFound
	}
	return ErrCatalogUnavailable
}

func filterKeys(keys []string, filter string) []string {
	needle := strings.ToLower(strings.TrimSpace(filter))
	if needle == "" {
		return keys
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), needle) {
			out = append(out, key)
		}
	}
	return out
}
