// Package storefront reads products from the Shopify Storefront API.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/closet/internal/model"
)

// DefaultAPIVersion is the Storefront API version requested.
const DefaultAPIVersion = "2025-01"

// MaxPageSize is the largest page the Storefront API serves.
const MaxPageSize = 100

const productsQuery = `query Products($first: Int!, $query: String) {
  products(first: $first, query: $query) {
    edges {
      node {
        id
        title
        handle
        vendor
        productType
        availableForSale
        priceRange { minVariantPrice { amount currencyCode } }
        featuredImage { url }
      }
    }
  }
}`

// Client talks to one shop's Storefront API.
type Client struct {
	Endpoint string
	Token    string
	HTTP     *http.Client
}

// New creates a client for a shop domain such as "example.myshopify.com".
func New(domain, token string) *Client {
	domain = strings.TrimSuffix(strings.TrimPrefix(domain, "https://"), "/")
	return &Client{
		Endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", domain, DefaultAPIVersion),
		Token:    token,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type productsResponse struct {
	Data *struct {
		Products *struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type productNode struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Handle           string  `json:"handle"`
	Vendor           *string `json:"vendor"`
	ProductType      *string `json:"productType"`
	AvailableForSale bool    `json:"availableForSale"`
	PriceRange       *struct {
		MinVariantPrice *struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"minVariantPrice"`
	} `json:"priceRange"`
	FeaturedImage *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
}

// Products returns up to first products matching search, in the API's own
// ranking. An empty search applies no text filter. A response without a
// products field yields an empty slice rather than an error.
func (c *Client) Products(ctx context.Context, search string, first int) ([]model.StorefrontProduct, error) {
	if first <= 0 || first > MaxPageSize {
		first = MaxPageSize
	}

	vars := map[string]any{"first": first}
	if search != "" {
		vars["query"] = search
	}
	body, err := json.Marshal(graphQLRequest{Query: productsQuery, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("encoding products request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building products request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("storefront api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading products response: %w", err)
	}

	var parsed productsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		slog.Warn("storefront response not decodable, returning no products", "error", err)
		return []model.StorefrontProduct{}, nil
	}

	if len(parsed.Errors) > 0 {
		msgs := make([]string, len(parsed.Errors))
		for i, e := range parsed.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("storefront api errors: %s", strings.Join(msgs, "; "))
	}

	if parsed.Data == nil || parsed.Data.Products == nil {
		return []model.StorefrontProduct{}, nil
	}

	products := make([]model.StorefrontProduct, 0, len(parsed.Data.Products.Edges))
	for _, edge := range parsed.Data.Products.Edges {
		products = append(products, edge.Node.toProduct())
	}
	return products, nil
}

func (n productNode) toProduct() model.StorefrontProduct {
	p := model.StorefrontProduct{
		ID:               n.ID,
		Title:            n.Title,
		Handle:           n.Handle,
		Vendor:           n.Vendor,
		ProductType:      n.ProductType,
		AvailableForSale: n.AvailableForSale,
	}
	if n.PriceRange != nil && n.PriceRange.MinVariantPrice != nil {
		amount := n.PriceRange.MinVariantPrice.Amount
		currency := n.PriceRange.MinVariantPrice.CurrencyCode
		p.PriceAmount = &amount
		p.CurrencyCode = &currency
	}
	if n.FeaturedImage != nil && n.FeaturedImage.URL != "" {
		url := n.FeaturedImage.URL
		p.ImageURL = &url
	}
	return p
}
