// Package catalog exposes the inventory and storefront reads the shop is
// built from, normalized into stable public shapes.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/erazemk/closet/internal/model"
	"github.com/erazemk/closet/internal/querycache"
	"github.com/erazemk/closet/internal/store"
)

// Query parameters and staleness windows.
const (
	DefaultRecentLimit = 12
	RecentWindow       = 2 * time.Minute

	SoldLimit = 100

	ProductPageSize = 100
	ProductsWindow  = 5 * time.Minute

	BrandsWindow = 2 * time.Minute
)

// Operation names, also the prefix of each query identity.
const (
	OpRecentInventory    = "recent_inventory"
	OpSoldInventory      = "sold_inventory"
	OpStorefrontProducts = "storefront_products"
	OpBrands             = "brands"
)

var publicColumns = []string{
	store.ColID, store.ColName, store.ColBrand, store.ColSize, store.ColAskingPrice,
	store.ColImageURL, store.ColImageURLs, store.ColCategory, store.ColBrandCategory,
	store.ColStatus, store.ColClosetDisplay, store.ColNotes,
}

var soldColumns = []string{
	store.ColID, store.ColName, store.ColBrand, store.ColSize, store.ColAskingPrice,
	store.ColSalePrice, store.ColImageURL, store.ColImageURLs, store.ColCategory,
	store.ColStatus, store.ColSoldAt, store.ColNotes,
}

// ProductSource lists products of the external commerce API.
type ProductSource interface {
	Products(ctx context.Context, search string, first int) ([]model.StorefrontProduct, error)
}

// BrandLister lists brand filter entries.
type BrandLister interface {
	ListBrands(ctx context.Context) ([]model.Brand, error)
}

// Service runs catalog queries. Products and Brands are optional.
type Service struct {
	Store    store.Querier
	Products ProductSource
	Brands   BrandLister
	Cache    *querycache.Cache
}

// NewService creates a service reading from q with a process-local cache.
func NewService(q store.Querier) *Service {
	return &Service{Store: q, Cache: querycache.New(querycache.NewMemory())}
}

// RecentInventory returns up to limit for-sale items, newest first. A zero
// limit means DefaultRecentLimit.
func (s *Service) RecentInventory(ctx context.Context, limit int) ([]model.PublicInventoryItem, error) {
	if limit == 0 {
		limit = DefaultRecentLimit
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	items, err := querycache.Fetch(ctx, s.Cache, querycache.Key(OpRecentInventory, limit), RecentWindow, s.recentFetcher(limit))
	return items, s.wrap(ctx, OpRecentInventory, err)
}

func (s *Service) recentFetcher(limit int) func(context.Context) ([]model.PublicInventoryItem, error) {
	return func(ctx context.Context) ([]model.PublicInventoryItem, error) {
		rows, err := s.Store.Select(ctx, store.Query{
			Table:   store.InventoryTable,
			Columns: publicColumns,
			Filter:  store.Filter{Column: store.ColStatus, Value: model.StatusForSale},
			OrderBy: store.ColCreatedAt,
			Limit:   limit,
		})
		if err != nil {
			return nil, err
		}

		items := make([]model.PublicInventoryItem, 0, len(rows))
		for _, row := range rows {
			items = append(items, ToPublicItem(row))
		}
		return items, nil
	}
}

// SoldInventory returns up to SoldLimit sold items, most recently sold
// first. Results are never reused across calls; only concurrent calls share
// a query.
func (s *Service) SoldInventory(ctx context.Context) ([]model.SoldInventoryItem, error) {
	items, err := querycache.Fetch(ctx, s.Cache, querycache.Key(OpSoldInventory), 0,
		func(ctx context.Context) ([]model.SoldInventoryItem, error) {
			rows, err := s.Store.Select(ctx, store.Query{
				Table:   store.InventoryTable,
				Columns: soldColumns,
				Filter:  store.Filter{Column: store.ColStatus, Value: model.StatusSold},
				OrderBy: store.ColSoldAt,
				Limit:   SoldLimit,
			})
			if err != nil {
				return nil, err
			}

			items := make([]model.SoldInventoryItem, 0, len(rows))
			for _, row := range rows {
				items = append(items, ToSoldItem(row))
			}
			return items, nil
		})
	return items, s.wrap(ctx, OpSoldInventory, err)
}

// StorefrontProducts returns up to ProductPageSize products from the
// commerce API matching search. Ranking and filtering are the API's.
func (s *Service) StorefrontProducts(ctx context.Context, search string) ([]model.StorefrontProduct, error) {
	if s.Products == nil {
		return nil, &QueryError{Op: OpStorefrontProducts, Err: ErrNotConfigured}
	}

	products, err := querycache.Fetch(ctx, s.Cache, querycache.Key(OpStorefrontProducts, search), ProductsWindow, s.productsFetcher(search))
	return products, s.wrap(ctx, OpStorefrontProducts, err)
}

func (s *Service) productsFetcher(search string) func(context.Context) ([]model.StorefrontProduct, error) {
	return func(ctx context.Context) ([]model.StorefrontProduct, error) {
		products, err := s.Products.Products(ctx, search, ProductPageSize)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []model.StorefrontProduct{}
		}
		if len(products) > ProductPageSize {
			products = products[:ProductPageSize]
		}
		return products, nil
	}
}

// ListBrands returns the brand filter entries.
func (s *Service) ListBrands(ctx context.Context) ([]model.Brand, error) {
	if s.Brands == nil {
		return nil, &QueryError{Op: OpBrands, Err: ErrNotConfigured}
	}

	brands, err := querycache.Fetch(ctx, s.Cache, querycache.Key(OpBrands), BrandsWindow, s.brandsFetcher())
	return brands, s.wrap(ctx, OpBrands, err)
}

func (s *Service) brandsFetcher() func(context.Context) ([]model.Brand, error) {
	return func(ctx context.Context) ([]model.Brand, error) {
		brands, err := s.Brands.ListBrands(ctx)
		if err != nil {
			return nil, err
		}
		if brands == nil {
			brands = []model.Brand{}
		}
		return brands, nil
	}
}

// Invalidate drops cached results so the next read sees recent writes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.Cache.Invalidate(ctx)
}

// wrap turns a fetch failure into a QueryError. A caller that went away
// gets its own context error back unchanged.
func (s *Service) wrap(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	return &QueryError{Op: op, Err: err}
}
