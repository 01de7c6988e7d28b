package apperr

import (
	"errors"
	"os"
	"testing"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NotFound("product", "42"), IsNotFound},
		{"validation", Validation("name is required"), IsValidation},
		{"invalid category is validation", ErrInvalidCategory, IsValidation},
		{"persistence", Persistence(os.ErrPermission, "save catalog"), IsPersistence},
		{"auth", ErrAuth, IsAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Fatalf("kind check failed for %v", tt.err)
			}
		})
	}
}

func TestPersistenceKeepsCause(t *testing.T) {
	err := Persistence(os.ErrPermission, "save catalog")
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("cause lost: %v", err)
	}
	if IsNotFound(err) {
		t.Fatal("persistence error must not match not found")
	}
	if Persistence(nil, "noop") != nil {
		t.Fatal("nil cause must stay nil")
	}
}
