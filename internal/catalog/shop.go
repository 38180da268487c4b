package catalog

import (
	"context"
	"time"

	"github.com/erazemk/closet/internal/model"
	"github.com/erazemk/closet/internal/querycache"
)

// Section is one independently loaded part of the shop page. Data is an
// empty list while loading or after a failure.
type Section[E any] struct {
	Data    []E    `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// ShopPage is the landing screen: newest listings, brand filters and
// storefront products, each loaded on its own.
type ShopPage struct {
	Recent   Section[model.PublicInventoryItem] `json:"recent"`
	Brands   Section[model.Brand]               `json:"brands"`
	Products Section[model.StorefrontProduct]   `json:"products"`
}

// Shop starts the landing queries together and waits up to wait for them.
// A failing section doesn't affect the others; sections still running at
// the deadline are reported as loading and keep filling the cache.
func (s *Service) Shop(ctx context.Context, wait time.Duration) ShopPage {
	recent := querycache.Start(ctx, s.Cache,
		querycache.Key(OpRecentInventory, DefaultRecentLimit), RecentWindow, s.recentFetcher(DefaultRecentLimit))

	var brands *querycache.Task[[]model.Brand]
	if s.Brands != nil {
		brands = querycache.Start(ctx, s.Cache, querycache.Key(OpBrands), BrandsWindow, s.brandsFetcher())
	}

	var products *querycache.Task[[]model.StorefrontProduct]
	if s.Products != nil {
		products = querycache.Start(ctx, s.Cache, querycache.Key(OpStorefrontProducts, ""), ProductsWindow, s.productsFetcher(""))
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	return ShopPage{
		Recent:   section(waitCtx, OpRecentInventory, recent),
		Brands:   section(waitCtx, OpBrands, brands),
		Products: section(waitCtx, OpStorefrontProducts, products),
	}
}

func section[E any](ctx context.Context, op string, task *querycache.Task[[]E]) Section[E] {
	if task == nil {
		return Section[E]{Data: []E{}, Error: (&QueryError{Op: op, Err: ErrNotConfigured}).Error()}
	}

	st := task.Wait(ctx)
	switch st.Status {
	case querycache.Pending:
		return Section[E]{Data: []E{}, Loading: true}
	case querycache.Failed:
		return Section[E]{Data: []E{}, Error: (&QueryError{Op: op, Err: st.Err}).Error()}
	}
	if st.Data == nil {
		return Section[E]{Data: []E{}}
	}
	return Section[E]{Data: st.Data}
}
