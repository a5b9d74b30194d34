package blob

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	data := []byte("hello")
	n, err := m.PutObject(ctx, "reports/a.csv", data, "text/csv")
	if err != nil || n != 5 {
		t.Fatalf("PutObject: n=%d err=%v", n, err)
	}
	data[0] = 'j'

	got, err := m.GetObject(ctx, "reports/a.csv")
	if err != nil || string(got) != "hello" {
		t.Fatalf("GetObject: %q %v", got, err)
	}

	if _, err := m.PresignGet(ctx, "reports/a.csv", time.Minute); !errors.Is(err, ErrPresignNotSupported) {
		t.Errorf("expected ErrPresignNotSupported, got %v", err)
	}

	if err := m.DeleteObject(ctx, "reports/a.csv"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.GetObject(ctx, "reports/a.csv"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
