package upstream

import (
	"context"
	"net/url"
)

// Collection is a typed view over one REST resource:
// GET/POST <endpoint> and GET/PUT/DELETE <endpoint>/:id.
type Collection[T any] struct {
	client   *Client
	endpoint string
}

// NewCollection binds endpoint to client.
func NewCollection[T any](client *Client, endpoint string) *Collection[T] {
	return &Collection[T]{client: client, endpoint: endpoint}
}

// Endpoint returns the collection path.
func (c *Collection[T]) Endpoint() string {
	return c.endpoint
}

// List fetches every record.
func (c *Collection[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := c.client.Get(ctx, c.endpoint, query, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one record.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := c.client.Get(ctx, c.itemPath(id), nil, &item)
	return item, err
}

// Create posts a new record and returns the stored version. An empty answer
// yields the submitted record.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	created := item
	if err := c.client.Post(ctx, c.endpoint, item, &created); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update replaces the record identified by id.
func (c *Collection[T]) Update(ctx context.Context, id string, item T) (T, error) {
	updated := item
	if err := c.client.Put(ctx, c.itemPath(id), item, &updated); err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

// Delete removes the record identified by id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.client.Delete(ctx, c.itemPath(id))
}

func (c *Collection[T]) itemPath(id string) string {
	return c.endpoint + "/" + url.PathEscape(id)
}
