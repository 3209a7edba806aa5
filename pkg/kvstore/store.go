// Package kvstore is the durable local storage port of the guest session: opaque
// string blobs kept under namespaced keys, with memory, redis and SQL backends.
package kvstore

import (
	"context"
	"strings"
)

// Store reads and writes opaque blobs. Get reports found=false for absent keys;
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Namespaced prefixes every key with "<namespace>:". An empty namespace returns store unchanged.
func Namespaced(store Store, namespace string) Store {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return store
	}
	return &namespaced{inner: store, prefix: namespace + ":"}
}

type namespaced struct {
	inner  Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
