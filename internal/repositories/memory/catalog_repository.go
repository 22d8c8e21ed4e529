package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domain "github.com/spiritmart/api/internal/domain"
	"github.com/spiritmart/api/internal/repositories"
)

// CatalogRepository serves an immutable catalog snapshot from memory.
type CatalogRepository struct {
	states  []string
	schools map[string][]string
	designs map[string]map[string][]domain.Design
}

type catalogDesignRecord struct {
	DesignID   string          `json:"design_id"`
	DesignName string          `json:"design_name"`
	Style      string          `json:"style"`
	Wholesale  decimal.Decimal `json:"wholesale"`
	MSRP       decimal.Decimal `json:"msrp"`
}

// LoadCatalogFile reads the catalog JSON feed from disk and builds the snapshot.
func LoadCatalogFile(path string) (*CatalogRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog repository: open %s: %w", path, err)
	}
	defer f.Close()
	return NewCatalogRepository(f)
}

// NewCatalogRepository decodes a state → school → designs feed and freezes it.
// Records without a design id are dropped; everything else is kept as-is, in
// feed order. Duplicate design ids within a school keep the first occurrence.
func NewCatalogRepository(r io.Reader) (*CatalogRepository, error) {
	var feed map[string]map[string][]catalogDesignRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&feed); err != nil {
		return nil, fmt.Errorf("catalog repository: decode feed: %w", err)
	}

	repo := &CatalogRepository{
		schools: make(map[string][]string, len(feed)),
		designs: make(map[string]map[string][]domain.Design, len(feed)),
	}

	c := collate.New(language.AmericanEnglish)

	for state, schools := range feed {
		state = strings.TrimSpace(state)
		if state == "" {
			continue
		}
		repo.states = append(repo.states, state)
		repo.designs[state] = make(map[string][]domain.Design, len(schools))

		for school, records := range schools {
			school = strings.TrimSpace(school)
			if school == "" {
				continue
			}
			repo.schools[state] = append(repo.schools[state], school)

			seen := make(map[string]struct{}, len(records))
			designs := make([]domain.Design, 0, len(records))
			for _, rec := range records {
				id := strings.TrimSpace(rec.DesignID)
				if id == "" {
					continue
				}
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				designs = append(designs, domain.Design{
					ID:        id,
					Name:      strings.TrimSpace(rec.DesignName),
					Style:     domain.NormalizeStyle(rec.Style),
					Wholesale: rec.Wholesale,
					MSRP:      rec.MSRP,
				})
			}
			repo.designs[state][school] = designs
		}
		c.SortStrings(repo.schools[state])
	}
	c.SortStrings(repo.states)

	return repo, nil
}

// States lists catalog states in collated order.
func (r *CatalogRepository) States(ctx context.Context) ([]string, error) {
	if r == nil {
		return nil, repositories.NewError("catalog.States", repositories.KindUnavailable, "catalog not loaded", nil)
	}
	out := make([]string, len(r.states))
	copy(out, r.states)
	return out, nil
}

// Schools lists the schools for a state in collated order.
func (r *CatalogRepository) Schools(ctx context.Context, state string) ([]string, error) {
	if r == nil {
		return nil, repositories.NewError("catalog.Schools", repositories.KindUnavailable, "catalog not loaded", nil)
	}
	schools, ok := r.schools[strings.TrimSpace(state)]
	if !ok {
		return nil, repositories.NewError("catalog.Schools", repositories.KindNotFound, fmt.Sprintf("state %q not in catalog", state), nil)
	}
	out := make([]string, len(schools))
	copy(out, schools)
	return out, nil
}

// Designs lists a school's designs in catalog order.
func (r *CatalogRepository) Designs(ctx context.Context, state string, school string) ([]domain.Design, error) {
	if r == nil {
		return nil, repositories.NewError("catalog.Designs", repositories.KindUnavailable, "catalog not loaded", nil)
	}
	bySchool, ok := r.designs[strings.TrimSpace(state)]
	if !ok {
		return nil, repositories.NewError("catalog.Designs", repositories.KindNotFound, fmt.Sprintf("state %q not in catalog", state), nil)
	}
	designs, ok := bySchool[strings.TrimSpace(school)]
	if !ok {
		return nil, repositories.NewError("catalog.Designs", repositories.KindNotFound, fmt.Sprintf("school %q not in catalog", school), nil)
	}
	out := make([]domain.Design, len(designs))
	copy(out, designs)
	return out, nil
}

// FindDesign resolves one design within a state/school.
func (r *CatalogRepository) FindDesign(ctx context.Context, state string, school string, designID string) (domain.Design, error) {
	designs, err := r.Designs(ctx, state, school)
	if err != nil {
		return domain.Design{}, err
	}
	target := strings.TrimSpace(designID)
	for _, d := range designs {
		if d.ID == target {
			return d, nil
		}
	}
	return domain.Design{}, repositories.NewError("catalog.FindDesign", repositories.KindNotFound, fmt.Sprintf("design %q not in catalog", designID), nil)
}
