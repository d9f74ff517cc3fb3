package domain

import "context"

// CatalogClient defines the interface for interacting with the Amazon
// Product Advertising API.
type CatalogClient interface {
	GetItems(ctx context.Context, asins []string) ([]Product, error)
	SearchItems(ctx context.Context, keywords string, itemCount int) ([]SearchResult, error)
}
