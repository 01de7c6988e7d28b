package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/apperr"
	"storefront/internal/model"
)

func TestFileRepositoryLoadAbsentIsEmpty(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"empty file", ptr("")},
		{"blank file", ptr("  \n")},
		{"json null", ptr("null")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			products, err := NewFileRepository(path).Load(ctx)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if products == nil || len(products) != 0 {
				t.Fatalf("expected empty non-nil collection, got %#v", products)
			}
		})
	}
}

func TestFileRepositoryLoadCorruptReportsPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"wrong shape", `{"id":"1"}`},
		{"bad id", `[{"id":true,"name":"X"}]`},
		{"bad price", `[{"id":"1","price":"abc"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			products, err := NewFileRepository(path).Load(ctx)
			if !apperr.IsPersistence(err) {
				t.Fatalf("expected persistence error, got %v", err)
			}
			if products == nil || len(products) != 0 {
				t.Fatalf("expected empty non-nil collection, got %#v", products)
			}
		})
	}
}

func TestFileRepositoryLoadMixedIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	content := `[
  {"id": 1, "category": "vestidos", "name": "Vestido", "internalId": "V1", "price": "10", "image": ""},
  {"id": "2", "category": "blusas", "name": "Blusa", "internalId": "B1", "price": "20", "image": ""},
  {"id": 1717171717171, "category": "bolsas", "name": "Bolsa", "internalId": "A1", "price": "30", "image": ""}
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	products, err := NewFileRepository(path).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1", "2", "1717171717171"}
	if len(products) != len(want) {
		t.Fatalf("loaded %d products, want %d", len(products), len(want))
	}
	for i, id := range want {
		if products[i].ID != id {
			t.Errorf("product %d id = %q, want %q", i, products[i].ID, id)
		}
	}
}

// The browser form always sends a description and keeps the price as typed.
func TestFileRepositoryRoundTripKeepsFormOutput(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	original := `[
  {
    "id": "1717171717171",
    "category": "shorts",
    "name": "Short Jeans",
    "description": "",
    "internalId": "S001",
    "price": "50",
    "image": "https://images.unsplash.com/photo-1?ixlib=rb-1.2.1&auto=format&w=500"
  },
  {
    "id": "1",
    "category": "novidades",
    "name": "Vestido Floral Primavera",
    "description": "Vestido leve e delicado para a estação.",
    "internalId": "V001",
    "price": "129.9",
    "image": "https://example.com/v.jpg"
  }
]`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileRepository(path)
	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, loaded); err != nil {
		t.Fatal(err)
	}
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(saved) != original {
		t.Fatalf("save(load()) changed content:\n%s\n---\n%s", original, saved)
	}
}

func TestFileRepositoryRoundTripIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	repo := NewFileRepository(path)

	if err := repo.Save(ctx, model.SeedProducts()); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(first, []byte("\n  {\n    \"id\": \"1\"")) {
		t.Fatalf("expected pretty-printed output, got:\n%s", first)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, loaded); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("save(load()) changed content:\n%s\n---\n%s", first, second)
	}
}

func TestFileRepositorySaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	if err := NewFileRepository(path).Save(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]" {
		t.Fatalf("got %q", data)
	}
}

func TestFileRepositorySaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "products.json")
	repo := NewFileRepository(path)

	err := repo.Save(context.Background(), model.SeedProducts())
	if !apperr.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if err := repo.Ping(context.Background()); !apperr.IsPersistence(err) {
		t.Fatalf("expected ping failure, got %v", err)
	}
}

func ptr(s string) *string { return &s }
