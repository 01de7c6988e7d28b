package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/apperr"
	"storefront/internal/model"
	"storefront/internal/repository"
)

type seqIDs struct{ n int }

func (g *seqIDs) NextID() string {
	g.n++
	return fmt.Sprintf("gen-%d", g.n)
}

// failingRepo wraps a repository and fails Save on demand.
type failingRepo struct {
	repository.CatalogRepository
	failSave bool
}

func (r *failingRepo) Save(ctx context.Context, p []model.Product) error {
	if r.failSave {
		return apperr.Persistence(errors.New("disk full"), "save catalog")
	}
	return r.CatalogRepository.Save(ctx, p)
}

func newService(t *testing.T) (*ProductService, *failingRepo) {
	t.Helper()
	repo := &failingRepo{CatalogRepository: repository.NewFileRepository(filepath.Join(t.TempDir(), "products.json"))}
	return NewProductService(repo, &seqIDs{}), repo
}

func sample(name string) model.Product {
	return model.Product{
		Category:   model.CategoryVestidos,
		Name:       name,
		InternalID: "V9",
		Price:      model.MustParsePrice("99.90"),
		Image:      "https://example.com/v.jpg",
	}
}

func TestCreateAssignsIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.Create(ctx, sample("A"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Create(ctx, sample("B"))
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids not unique: %q %q", a.ID, b.ID)
	}

	kept := sample("C")
	kept.ID = "client-id"
	c, err := svc.Create(ctx, kept)
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != "client-id" {
		t.Fatalf("client id dropped: %q", c.ID)
	}

	all, _ := svc.GetAll(ctx)
	if len(all) != 3 || all[0].Name != "A" || all[2].Name != "C" {
		t.Fatalf("unexpected collection %+v", all)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	noName := sample("  ")
	if _, err := svc.Create(ctx, noName); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	badCat := sample("X")
	badCat.Category = "sapatos"
	if _, err := svc.Create(ctx, badCat); !errors.Is(err, apperr.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
}

func TestUpdateKeepsPosition(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for _, n := range []string{"A", "B", "C"} {
		if _, err := svc.Create(ctx, sample(n)); err != nil {
			t.Fatal(err)
		}
	}

	changed := sample("B2")
	changed.Price = model.MustParsePrice("10.00")
	got, err := svc.Update(ctx, "gen-2", changed)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "gen-2" {
		t.Fatalf("id = %q", got.ID)
	}

	all, _ := svc.GetAll(ctx)
	if all[1].Name != "B2" || all[1].Price.Text() != "10.00" {
		t.Fatalf("update not in place: %+v", all)
	}
	seen := map[string]bool{}
	for _, p := range all {
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}

	if _, err := svc.Update(ctx, "nope", changed); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.Create(ctx, sample("A"))
	_, _ = svc.Create(ctx, sample("B"))

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetByID(ctx, a.ID); !apperr.IsNotFound(err) {
		t.Fatalf("deleted product still found: %v", err)
	}

	before, _ := svc.GetAll(ctx)
	if err := svc.Delete(ctx, a.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	after, _ := svc.GetAll(ctx)
	if len(before) != len(after) {
		t.Fatal("failed delete changed the collection")
	}
}

func TestPersistenceFailureLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	_, _ = svc.Create(ctx, sample("A"))

	repo.failSave = true
	if _, err := svc.Create(ctx, sample("B")); !apperr.IsPersistence(err) {
		t.Fatalf("expected persistence failure, got %v", err)
	}
	repo.failSave = false

	all, _ := svc.GetAll(ctx)
	if len(all) != 1 {
		t.Fatalf("failed create leaked: %+v", all)
	}
}

func writeCatalog(t *testing.T, content string) (*ProductService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewProductService(repository.NewFileRepository(path), &seqIDs{}), path
}

func TestCreateKeepsProductsWithNumericIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := writeCatalog(t, `[
  {"id": 1, "category": "vestidos", "name": "Vestido", "internalId": "V1", "price": "10", "image": ""},
  {"id": "2", "category": "blusas", "name": "Blusa", "internalId": "B1", "price": "20", "image": ""}
]`)

	all, err := svc.GetAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("GetAll = %d products, %v", len(all), err)
	}
	if _, err := svc.Create(ctx, sample("Novo")); err != nil {
		t.Fatal(err)
	}
	all, _ = svc.GetAll(ctx)
	if len(all) != 3 || all[0].ID != "1" || all[1].ID != "2" || all[2].ID != "gen-1" {
		t.Fatalf("unexpected collection %+v", all)
	}
	if p, err := svc.GetByID(ctx, "1"); err != nil || p.Name != "Vestido" {
		t.Fatalf("GetByID(1) = %+v, %v", p, err)
	}
}

func TestWritesRefuseUnreadableCatalog(t *testing.T) {
	ctx := context.Background()
	const corrupt = `[{"id": "1", "name": "Vestido", "price": "abc"}]`
	svc, path := writeCatalog(t, corrupt)

	all, err := svc.GetAll(ctx)
	if err != nil || len(all) != 0 {
		t.Fatalf("reads should degrade to empty: %+v, %v", all, err)
	}
	if _, err := svc.GetByID(ctx, "1"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := svc.Create(ctx, sample("Novo")); !apperr.IsPersistence(err) {
		t.Fatalf("create: expected persistence error, got %v", err)
	}
	if _, err := svc.Update(ctx, "1", sample("Novo")); !apperr.IsPersistence(err) {
		t.Fatalf("update: expected persistence error, got %v", err)
	}
	if err := svc.Delete(ctx, "1"); !apperr.IsPersistence(err) {
		t.Fatalf("delete: expected persistence error, got %v", err)
	}
	if _, err := svc.Seed(ctx); !apperr.IsPersistence(err) {
		t.Fatalf("seed: expected persistence error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != corrupt {
		t.Fatalf("catalog file was overwritten: %s", data)
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	seeded, err := svc.Seed(ctx)
	if err != nil || !seeded {
		t.Fatalf("seed = %v, %v", seeded, err)
	}
	seeded, err = svc.Seed(ctx)
	if err != nil || seeded {
		t.Fatalf("second seed = %v, %v", seeded, err)
	}
	p, err := svc.GetByID(ctx, "1")
	if err != nil || p.Name != "Vestido Floral Primavera" {
		t.Fatalf("seed product = %+v, %v", p, err)
	}
}

func TestSnowflakeIDsUnique(t *testing.T) {
	ids, err := NewSnowflakeIDs(HostNodeID())
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := ids.NextID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestHealth(t *testing.T) {
	ok := NewHealthService(repository.NewFileRepository(filepath.Join(t.TempDir(), "p.json")))
	if !ok.Check(context.Background()).Up() {
		t.Fatal("expected UP")
	}
	down := NewHealthService(repository.NewFileRepository(filepath.Join(t.TempDir(), "gone", "p.json")))
	if down.Check(context.Background()).Up() {
		t.Fatal("expected DOWN")
	}
}
