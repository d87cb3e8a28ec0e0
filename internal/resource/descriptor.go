// Package resource implements the list/search/form/export screen that every
// console entity shares, on top of one remote REST collection.
package resource

import (
	"net/url"

	"github.com/sevadhara/console/internal/export"
)

// Field describes one form input. Name is both the input name and the JSON
// field the remote API expects.
type Field struct {
	Name        string
	Label       string
	Type        string
	Options     []string
	Required    bool
	Placeholder string
	Step        string
}

// Action is an extra per-row operation, mounted at <BasePath>/<id><Suffix>.
type Action struct {
	Label   string
	Suffix  string
	Method  string
	Confirm string
}

// Link is a toolbar shortcut on the list page.
type Link struct {
	Label string
	Href  string
}

// Descriptor binds an entity type to its screen.
type Descriptor[T any] struct {
	// Slug identifies the screen on the command line, e.g. "buyers".
	Slug       string
	Title      string
	Singular   string
	BasePath   string
	Endpoint   string
	ExportName string

	ID      func(T) string
	Search  func(T) []string
	Columns []export.Column
	Row     func(T) []string

	Fields []Field
	Bind   func(url.Values) T
	Values func(T) url.Values

	// Prepare fills derived values before validation.
	Prepare func(*T)
	// Check adds cross-field rules the struct tags cannot express.
	Check func(T) map[string]string
	// Filter keeps only the remote records that belong to this screen.
	Filter func(T) bool

	Actions []Action
	Links   []Link
}
