// internal/templates/templates.go

// Package templates persists game templates: a named, ordered list of text
// segments that seeds a lobby's gap sequence at start time. The game core
// only ever reads from this store.
package templates

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Template is one stored fill-in-the-blank text.
type Template struct {
	ID       uuid.UUID `json:"-"`
	Name     string    `json:"name"`
	Segments []string  `json:"text_section"`
}

// ErrExists is returned by Create when the name is taken and force is false.
var ErrExists = errors.New("template already exists")

// ErrNotFound is returned when no template has the requested name.
var ErrNotFound = errors.New("template not found")

// Store is the persistence interface for templates. Implementations may be
// backed by Postgres, memory, or a caching wrapper around either.
type Store interface {
	// Create saves a template under its name. If the name is taken it
	// fails with ErrExists unless force is set, in which case the old
	// template is replaced.
	Create(ctx context.Context, tpl *Template, force bool) error

	// Get fetches a template by name, or ErrNotFound.
	Get(ctx context.Context, name string) (*Template, error)

	// List returns all stored templates.
	List(ctx context.Context) ([]Template, error)
}
