package resource

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/upstream"
)

// Exportable is the type-erased view of a Service used by the CLI and the
// catalog.
type Exportable interface {
	Slug() string
	Title() string
	ExportTable(ctx context.Context, search string) (export.Table, error)
}

// Service holds the entity rules: validate before any write, then talk to
// the remote collection.
type Service[T any] struct {
	desc     *Descriptor[T]
	items    *upstream.Collection[T]
	validate *validator.Validate
	onChange []func(context.Context)
}

// NewService binds desc to the remote API.
func NewService[T any](desc *Descriptor[T], client *upstream.Client, v *validator.Validate) *Service[T] {
	if v == nil {
		v = shared.NewValidator()
	}
	return &Service[T]{desc: desc, items: upstream.NewCollection[T](client, desc.Endpoint), validate: v}
}

// OnChange registers a hook run after every successful write.
func (s *Service[T]) OnChange(fn func(context.Context)) {
	if fn != nil {
		s.onChange = append(s.onChange, fn)
	}
}

// Descriptor returns the screen description.
func (s *Service[T]) Descriptor() *Descriptor[T] { return s.desc }

// Slug implements Exportable.
func (s *Service[T]) Slug() string { return s.desc.Slug }

// Title implements Exportable.
func (s *Service[T]) Title() string { return s.desc.Title }

// List fetches every record of the screen.
func (s *Service[T]) List(ctx context.Context) ([]T, error) {
	items, err := s.items.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.desc.Slug, err)
	}
	if s.desc.Filter == nil {
		return items, nil
	}
	kept := items[:0]
	for _, item := range items {
		if s.desc.Filter(item) {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

// Search lists and filters by term.
func (s *Service[T]) Search(ctx context.Context, term string) ([]T, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return shared.FilterRows(items, term, s.desc.Search), nil
}

// Page lists, filters and slices one page.
func (s *Service[T]) Page(ctx context.Context, filters shared.ListFilters) (shared.ListPage[T], error) {
	items, err := s.List(ctx)
	if err != nil {
		return shared.ListPage[T]{Filters: filters, Pagination: shared.NewPagination(1, filters.Limit, 0)}, err
	}
	return shared.BuildListPage(items, filters, s.desc.Search), nil
}

// Get fetches one record.
func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return item, fmt.Errorf("get %s %s: %w", s.desc.Slug, id, err)
	}
	return item, nil
}

// Validate runs the struct tags and the descriptor's cross-field checks.
func (s *Service[T]) Validate(item T) error {
	fields := map[string]string{}
	if err := shared.ValidateStruct(s.validate, item); err != nil {
		tagged := shared.FieldErrors(err)
		if tagged == nil {
			return err
		}
		for k, v := range tagged {
			fields[k] = v
		}
	}
	if s.desc.Check != nil {
		for k, v := range s.desc.Check(item) {
			if _, exists := fields[k]; !exists {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		return shared.NewValidationError(fields)
	}
	return nil
}

// Create validates then posts the record. Nothing is sent when validation
// fails.
func (s *Service[T]) Create(ctx context.Context, item T) (T, error) {
	if s.desc.Prepare != nil {
		s.desc.Prepare(&item)
	}
	if err := s.Validate(item); err != nil {
		var zero T
		return zero, err
	}
	created, err := s.items.Create(ctx, item)
	if err != nil {
		return created, fmt.Errorf("create %s: %w", s.desc.Slug, err)
	}
	s.changed(ctx)
	return created, nil
}

// Update validates then replaces the record.
func (s *Service[T]) Update(ctx context.Context, id string, item T) (T, error) {
	if id == "" {
		var zero T
		return zero, shared.NewValidationError(map[string]string{"_id": "is required"})
	}
	if s.desc.Prepare != nil {
		s.desc.Prepare(&item)
	}
	if err := s.Validate(item); err != nil {
		var zero T
		return zero, err
	}
	updated, err := s.items.Update(ctx, id, item)
	if err != nil {
		return updated, fmt.Errorf("update %s %s: %w", s.desc.Slug, id, err)
	}
	s.changed(ctx)
	return updated, nil
}

// Delete removes the record.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", s.desc.Slug, id, err)
	}
	s.changed(ctx)
	return nil
}

// Table projects items onto the export columns.
func (s *Service[T]) Table(items []T) export.Table {
	table := export.Table{Entity: s.desc.ExportName, Title: s.desc.Title, Columns: s.desc.Columns}
	table.Rows = make([][]string, 0, len(items))
	for _, item := range items {
		table.Rows = append(table.Rows, s.desc.Row(item))
	}
	return table
}

// ExportTable builds the filtered, page-independent export table.
func (s *Service[T]) ExportTable(ctx context.Context, search string) (export.Table, error) {
	items, err := s.Search(ctx, search)
	if err != nil {
		return export.Table{}, err
	}
	return s.Table(items), nil
}

func (s *Service[T]) changed(ctx context.Context) {
	for _, fn := range s.onChange {
		fn(ctx)
	}
}
