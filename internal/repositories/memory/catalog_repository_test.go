package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spiritmart/api/internal/repositories"
)

const testFeed = `{
  "CA": {
    "Lincoln HS": [
      {"design_id": "d1", "design_name": "Lions Roar", "style": "g500", "wholesale": 8.95, "msrp": 22},
      {"design_id": "d2", "design_name": "Vintage Lion", "style": "G185", "wholesale": 19.95, "msrp": 45},
      {"design_id": "d1", "design_name": "Duplicate", "style": "G500", "wholesale": 1, "msrp": 1},
      {"design_id": "", "design_name": "No ID", "style": "G500", "wholesale": 1, "msrp": 1}
    ],
    "Alameda HS": [
      {"design_id": "d3", "design_name": "Eagles", "style": "G240", "wholesale": 11.55, "msrp": 28}
    ]
  },
  "AZ": {
    "Tempe High": [
      {"design_id": "d4", "design_name": "Wildcats", "style": "NL6010", "wholesale": 12.30, "msrp": 30}
    ]
  }
}`

func testCatalog(t *testing.T) *CatalogRepository {
	t.Helper()
	repo, err := NewCatalogRepository(strings.NewReader(testFeed))
	if err != nil {
		t.Fatalf("unexpected error loading feed: %v", err)
	}
	return repo
}

func TestCatalogRepositoryStatesSorted(t *testing.T) {
	repo := testCatalog(t)

	states, err := repo.States(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"AZ", "CA"}, states); diff != "" {
		t.Fatalf("unexpected states (-want +got):\n%s", diff)
	}
}

func TestCatalogRepositorySchoolsSorted(t *testing.T) {
	repo := testCatalog(t)

	schools, err := repo.Schools(context.Background(), "CA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Alameda HS", "Lincoln HS"}, schools); diff != "" {
		t.Fatalf("unexpected schools (-want +got):\n%s", diff)
	}
}

func TestCatalogRepositoryDesignsKeepFeedOrderAndDropBadRecords(t *testing.T) {
	repo := testCatalog(t)

	designs, err := repo.Designs(context.Background(), "CA", "Lincoln HS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(designs) != 2 {
		t.Fatalf("expected 2 designs after dedupe, got %d", len(designs))
	}
	if designs[0].ID != "d1" || designs[1].ID != "d2" {
		t.Fatalf("unexpected design order: %s, %s", designs[0].ID, designs[1].ID)
	}
	if designs[0].Name != "Lions Roar" {
		t.Fatalf("expected first occurrence to win on duplicate id, got %q", designs[0].Name)
	}
	if designs[0].Style != "G500" {
		t.Fatalf("expected style uppercased at load, got %q", designs[0].Style)
	}
}

func TestCatalogRepositoryFindDesign(t *testing.T) {
	repo := testCatalog(t)

	design, err := repo.FindDesign(context.Background(), "AZ", "Tempe High", "d4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if design.Name != "Wildcats" {
		t.Fatalf("unexpected design %q", design.Name)
	}
}

func TestCatalogRepositoryNotFoundKinds(t *testing.T) {
	repo := testCatalog(t)
	ctx := context.Background()

	assertNotFound := func(err error) {
		t.Helper()
		var repoErr repositories.RepositoryError
		if !errors.As(err, &repoErr) || !repoErr.IsNotFound() {
			t.Fatalf("expected not-found repository error, got %v", err)
		}
	}

	_, err := repo.Schools(ctx, "TX")
	assertNotFound(err)

	_, err = repo.Designs(ctx, "CA", "Nowhere HS")
	assertNotFound(err)

	_, err = repo.FindDesign(ctx, "CA", "Lincoln HS", "missing")
	assertNotFound(err)
}

func TestNewCatalogRepositoryRejectsMalformedFeed(t *testing.T) {
	if _, err := NewCatalogRepository(strings.NewReader(`{"CA": []}`)); err == nil {
		t.Fatalf("expected decode error for malformed feed")
	}
}
