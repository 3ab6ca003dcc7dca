package geomag

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/httputil"
)

func TestDeclination(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		fmt.Fprint(w, `{"result":[{"declination":14.87,"latitude":-41.4391,"longitude":146.9336}]}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", nil)
	date := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	decl, err := c.Declination(context.Background(), -41.4391, 146.9336, date)
	if err != nil {
		t.Fatalf("Declination: %v", err)
	}
	if decl != 14.87 {
		t.Errorf("declination = %v, want 14.87", decl)
	}

	if got := query["lat1"]; len(got) != 1 || got[0] != "-41.439100" {
		t.Errorf("lat1 = %v", got)
	}
	if got := query["resultFormat"]; len(got) != 1 || got[0] != "json" {
		t.Errorf("resultFormat = %v", got)
	}
	if got := query["key"]; len(got) != 1 || got[0] != "test-key" {
		t.Errorf("key = %v", got)
	}
	if got := query["startYear"]; len(got) != 1 || got[0] != "2026" {
		t.Errorf("startYear = %v", got)
	}
}

func TestDeclinationEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":[]}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", nil)
	_, err := c.Declination(context.Background(), -41.4, 146.9, time.Now())
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
}

func TestDeclinationCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"result":[{"declination":14.87}]}`)
	}))
	defer server.Close()

	cache, err := httputil.NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	c := NewClient(server.URL, "", cache)
	date := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	for range 2 {
		if _, err := c.Declination(context.Background(), -41.4, 146.9, date); err != nil {
			t.Fatalf("Declination: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("second lookup should hit the cache, got %d calls", calls)
	}
}
