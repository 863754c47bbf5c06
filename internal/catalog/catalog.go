// Package catalog supplies the items a session is played over.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jsabazova/suburb-swipe/internal/game"
)

var ErrUnknownCatalog = errors.New("unknown catalog")

const (
	Melbourne         = "melbourne"
	MelbourneExtended = "melbourne-extended"
)

// Source loads an ordered catalog with unique ids.
type Source interface {
	Load(ctx context.Context) ([]game.CatalogItem, error)
	Title() string
}

// Static is a built-in catalog using curated images.
type Static struct {
	name    string
	entries []entry
}

// Lookup returns the built-in catalog called name.
func Lookup(name string) (Static, error) {
	switch name {
	case Melbourne, "":
		return Static{name: Melbourne, entries: melbourne}, nil
	case MelbourneExtended:
		all := append(append([]entry(nil), melbourne...), melbourneExtra...)
		return Static{name: MelbourneExtended, entries: all}, nil
	default:
		return Static{}, fmt.Errorf("%w: %q", ErrUnknownCatalog, name)
	}
}

func (s Static) Name() string { return s.name }

func (s Static) Title() string { return "Melbourne Suburbs" }

func (s Static) Load(context.Context) ([]game.CatalogItem, error) {
	out := make([]game.CatalogItem, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, game.CatalogItem{
			ID:          e.id,
			Name:        e.name,
			Description: e.description,
			ImageURL:    CuratedImage(e.id),
		})
	}
	return out, nil
}

// CuratedImage returns the pinned photo for id, or the Fitzroy photo when
// none is pinned.
func CuratedImage(id string) string {
	if u, ok := curatedImages[id]; ok {
		return u
	}
	return curatedImages[fallbackImageID]
}

// SourceImage builds a keyless random-photo URL for a search query.
func SourceImage(query string) string {
	return "https://source.unsplash.com/800x600/?" + url.QueryEscape(query) + ",melbourne,australia,suburb"
}
