package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Item is an entry of a JSON document collection.
type Item[T any] interface {
	ItemID() string
	WithID(id string) T
}

// Collection is a JSON document holding one array under a single key, e.g.
// {"artists": [...]}. Other top-level members are kept as loaded. It
// remembers the sha it was loaded at so Save is an optimistic update.
type Collection[T Item[T]] struct {
	path  string
	key   string
	sha   string
	items []T
	rest  map[string]json.RawMessage
}

// NewCollection creates an empty collection that does not exist remotely yet.
func NewCollection[T Item[T]](path, key string) *Collection[T] {
	return &Collection[T]{path: path, key: key}
}

// LoadCollection fetches a collection. A missing document yields an empty
// collection that Save will create.
func LoadCollection[T Item[T]](ctx context.Context, c *Client, path, key string) (*Collection[T], error) {
	col := NewCollection[T](path, key)
	f, err := c.GetFile(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return col, nil
	}
	if err != nil {
		return nil, err
	}
	if err := col.Decode(f.Content); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	col.sha = f.SHA
	return col, nil
}

// Decode replaces the document with data.
func (c *Collection[T]) Decode(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	var items []T
	if raw, ok := doc[c.key]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decoding %q: %w", c.key, err)
		}
	}
	delete(doc, c.key)
	c.items = items
	c.rest = doc
	return nil
}

// Encode renders the document with two-space indentation.
func (c *Collection[T]) Encode() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", c.key, err)
	}
	doc := make(map[string]json.RawMessage, len(c.rest)+1)
	for k, v := range c.rest {
		doc[k] = v
	}
	doc[c.key] = raw
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", c.key, err)
	}
	return append(data, '\n'), nil
}

// Path returns the document path.
func (c *Collection[T]) Path() string { return c.path }

// SHA returns the revision the collection was loaded or last saved at.
func (c *Collection[T]) SHA() string { return c.sha }

// List returns the items in document order.
func (c *Collection[T]) List() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Collection[T]) Len() int { return len(c.items) }

// Find returns the item with id.
func (c *Collection[T]) Find(id string) (T, bool) {
	for _, it := range c.items {
		if it.ItemID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Upsert replaces the item with the same ID or appends it. An item without
// an ID gets a new one. Returns the stored item.
func (c *Collection[T]) Upsert(item T) T {
	if item.ItemID() == "" {
		item = item.WithID(uuid.NewString())
	}
	for i, it := range c.items {
		if it.ItemID() == item.ItemID() {
			c.items[i] = item
			return item
		}
	}
	c.items = append(c.items, item)
	return item
}

// Delete removes the item with id and reports whether it existed.
func (c *Collection[T]) Delete(id string) bool {
	for i, it := range c.items {
		if it.ItemID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Save writes the document at the loaded revision. On success the
// collection tracks the new revision; on ErrConflict the caller should
// reload and reapply.
func (c *Collection[T]) Save(ctx context.Context, client *Client, message string) (Commit, error) {
	data, err := c.Encode()
	if err != nil {
		return Commit{}, err
	}
	res, err := client.PutFile(ctx, c.path, data, message, c.sha)
	if err != nil {
		return Commit{}, err
	}
	c.sha = res.SHA
	return res.Commit, nil
}
