// Package codec persists typed collections as versioned envelopes:
//
//	{"schemaVersion": "1.0", "items": ...}
//
// An envelope written under any other schema version is never partially parsed; it is
// purged and reported as absent so returning guests start from a clean collection.
package codec

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mabrurgoods/storefront/pkg/kvstore"
	"github.com/tidwall/gjson"
)

// SchemaVersion is the envelope version written by this release.
const SchemaVersion = "1.0"

// Envelope is the only shape persisted to storage.
type Envelope struct {
	SchemaVersion string `json:"schemaVersion"`
	Items         any    `json:"items"`
}

// Outcome classifies a decode.
type Outcome int

const (
	// Decoded means the envelope matched the schema and items were restored.
	Decoded Outcome = iota
	// Absent means nothing was stored under the key.
	Absent
	// Malformed means the blob was not a readable envelope, including one without a
	// schemaVersion. Malformed blobs are left in storage.
	Malformed
	// Stale means the envelope carried another schema version and was purged.
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Decoded:
		return "decoded"
	case Absent:
		return "absent"
	case Malformed:
		return "malformed"
	case Stale:
		return "stale"
	}
	return "unknown"
}

// ToWire converts the in-memory collection into its stored item shape.
type ToWire[T any] func(items T) any

// FromWire restores the in-memory collection from the raw "items" JSON, coercing field types.
type FromWire[T any] func(raw json.RawMessage) (T, error)

// Codec binds a collection type to one storage key and schema version.
type Codec[T any] struct {
	key      string
	version  string
	store    kvstore.Store
	toWire   ToWire[T]
	fromWire FromWire[T]
}

func New[T any](store kvstore.Store, key, version string, toWire ToWire[T], fromWire FromWire[T]) *Codec[T] {
	return &Codec[T]{
		key:      key,
		version:  version,
		store:    store,
		toWire:   toWire,
		fromWire: fromWire,
	}
}

// Key returns the storage key the codec reads and writes.
func (c *Codec[T]) Key() string {
	return c.key
}

// Encode renders items as an envelope blob.
func (c *Codec[T]) Encode(items T) (string, error) {
	blob, err := json.Marshal(Envelope{SchemaVersion: c.version, Items: c.toWire(items)})
	if err != nil {
		return "", fmt.Errorf("encode %s envelope: %w", c.key, err)
	}
	return string(blob), nil
}

// Decode parses a blob without touching storage. The returned collection is the zero
// value unless the outcome is Decoded.
func (c *Codec[T]) Decode(blob string) (T, Outcome) {
	var zero T
	if !gjson.Valid(blob) {
		return zero, Malformed
	}
	parsed := gjson.Parse(blob)
	if !parsed.IsObject() {
		return zero, Malformed
	}
	version := parsed.Get("schemaVersion")
	if !version.Exists() {
		return zero, Malformed
	}
	if version.Type != gjson.String || version.Str != c.version {
		return zero, Stale
	}
	items := parsed.Get("items")
	if !items.Exists() {
		return zero, Malformed
	}
	restored, err := c.fromWire(json.RawMessage(items.Raw))
	if err != nil {
		return zero, Malformed
	}
	return restored, Decoded
}

// Load reads and decodes the stored envelope. A stale envelope is deleted before Load
// returns. The error reports storage failures only; decode problems surface as the Outcome.
func (c *Codec[T]) Load(ctx context.Context) (T, Outcome, error) {
	var zero T
	blob, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return zero, Absent, fmt.Errorf("read %s: %w", c.key, err)
	}
	if !found {
		return zero, Absent, nil
	}
	items, outcome := c.Decode(blob)
	if outcome == Stale {
		if err := c.store.Delete(ctx, c.key); err != nil {
			return zero, Stale, fmt.Errorf("purge stale %s: %w", c.key, err)
		}
	}
	return items, outcome, nil
}

// Save writes items through to storage.
func (c *Codec[T]) Save(ctx context.Context, items T) error {
	blob, err := c.Encode(items)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, blob); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

// Purge removes the stored envelope.
func (c *Codec[T]) Purge(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("purge %s: %w", c.key, err)
	}
	return nil
}
