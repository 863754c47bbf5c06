package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeUnsplash(t *testing.T, key string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Client-ID "+key {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		q := r.URL.Query().Get("query")
		if strings.HasPrefix(q, "Toorak") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if strings.HasPrefix(q, "Carlton") {
			fmt.Fprint(w, `{"results":[]}`)
			return
		}
		slug := strings.ReplaceAll(strings.ToLower(q), " ", "-")
		fmt.Fprintf(w, `{"results":[{"urls":{"regular":"https://img.test/%s.jpg"}}]}`, slug)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUnsplashSearch(t *testing.T) {
	srv := fakeUnsplash(t, "k1")
	base, _ := Lookup(Melbourne)
	u := NewUnsplash("k1", srv.URL+"/", base)

	got, err := u.Search(context.Background(), "Fitzroy melbourne")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got != "https://img.test/fitzroy-melbourne.jpg" {
		t.Fatalf("unexpected url %s", got)
	}

	if _, err := u.Search(context.Background(), "Carlton melbourne"); err == nil {
		t.Fatal("expected error for empty results")
	}

	bad := NewUnsplash("wrong", srv.URL, base)
	if _, err := bad.Search(context.Background(), "Fitzroy"); err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestUnsplashLoadFallsBackPerItem(t *testing.T) {
	srv := fakeUnsplash(t, "k1")
	base, _ := Lookup(Melbourne)
	u := NewUnsplash("k1", srv.URL, base)

	items, err := u.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(items))
	}
	byID := map[string]string{}
	for _, it := range items {
		byID[it.ID] = it.ImageURL
	}
	if byID["fitzroy"] != "https://img.test/fitzroy-melbourne.jpg" {
		t.Fatalf("unexpected fitzroy image %s", byID["fitzroy"])
	}
	if byID["toorak"] != curatedImages["toorak"] {
		t.Fatalf("failed lookup should keep curated image, got %s", byID["toorak"])
	}
	if byID["carlton"] != curatedImages["carlton"] {
		t.Fatalf("empty lookup should keep curated image, got %s", byID["carlton"])
	}
	if items[0].ID != "fitzroy" || items[9].ID != "prahran" {
		t.Fatal("lookups must not reorder the catalog")
	}
	if u.Title() != "Melbourne Suburbs" {
		t.Fatalf("unexpected title %q", u.Title())
	}
}

func TestUnsplashLoadWithoutKey(t *testing.T) {
	base, _ := Lookup(Melbourne)
	u := NewUnsplash("", "http://127.0.0.1:0", base)
	items, err := u.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if items[1].ImageURL != SourceImage("St Kilda") {
		t.Fatalf("expected keyless source url, got %s", items[1].ImageURL)
	}
}

func TestUnsplashLoadCancelled(t *testing.T) {
	srv := fakeUnsplash(t, "k1")
	base, _ := Lookup(Melbourne)
	u := NewUnsplash("k1", srv.URL, base)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := u.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
