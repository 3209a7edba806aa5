package catalog

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultPrefetchConcurrency bounds in-flight fetches when the caller passes no limit.
const DefaultPrefetchConcurrency = 4

// Source fetches a single product from wherever the catalog lives. A product the
// catalog does not know is reported as (Product{}, false, nil), not as an error.
type Source interface {
	FetchProduct(ctx context.Context, id string) (Product, bool, error)
}

// FetchProduct lets a Snapshot act as its own Source.
func (s *Snapshot) FetchProduct(_ context.Context, id string) (Product, bool, error) {
	p, ok := s.GetProduct(id)
	return p, ok, nil
}

// Prefetch resolves the distinct ids concurrently and returns them as a Snapshot, so
// aggregation can run without further I/O. Unknown ids are simply absent from the result.
func Prefetch(ctx context.Context, src Source, ids []string, concurrency int) (*Snapshot, error) {
	if src == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog source not configured")
	}
	if concurrency <= 0 {
		concurrency = DefaultPrefetchConcurrency
	}

	var (
		mu    sync.Mutex
		found = make(map[string]Product, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, id := range distinct(ids) {
		id := id
		g.Go(func() error {
			p, ok, err := src.FetchProduct(gctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			p.ID = id
			mu.Lock()
			found[id] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prefetch catalog")
	}
	return &Snapshot{products: found}, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
