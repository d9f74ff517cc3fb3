package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pricepulse/backend/internal/domain"
)

// ProductService orchestrates catalog lookups: it normalizes caller-supplied
// product references (ASINs or product-page URLs) and delegates to the
// injected catalog client. It holds no mutable state and is safe for
// concurrent use.
type ProductService struct {
	catalog domain.CatalogClient
}

// NewProductService creates a new product service with dependencies
func NewProductService(catalog domain.CatalogClient) *ProductService {
	return &ProductService{catalog: catalog}
}

// Lookup resolves a mixed list of ASINs and product URLs into products.
// Every reference must normalize to a valid ASIN before any network call is
// made; duplicates are collapsed, first occurrence wins.
func (s *ProductService) Lookup(ctx context.Context, refs []string) ([]domain.Product, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no product references given", domain.ErrInvalidRequest)
	}

	seen := make(map[string]bool, len(refs))
	asins := make([]string, 0, len(refs))
	for _, ref := range refs {
		asin, err := normalizeRef(ref)
		if err != nil {
			return nil, err
		}
		if seen[asin] {
			continue
		}
		seen[asin] = true
		asins = append(asins, asin)
	}

	return s.catalog.GetItems(ctx, asins)
}

// LookupByURL resolves a single product-page URL into a product.
func (s *ProductService) LookupByURL(ctx context.Context, rawURL string) (*domain.Product, error) {
	asin, ok := domain.ExtractASIN(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: no ASIN in URL %q", domain.ErrInvalidASIN, rawURL)
	}

	products, err := s.catalog.GetItems(ctx, []string{asin})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return &products[0], nil
}

// Search runs a keyword search against the catalog.
func (s *ProductService) Search(ctx context.Context, keywords string, itemCount int) ([]domain.SearchResult, error) {
	return s.catalog.SearchItems(ctx, strings.TrimSpace(keywords), itemCount)
}

// normalizeRef turns one caller-supplied reference into an ASIN. URLs go
// through the extractor; bare identifiers through the validator.
func normalizeRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if domain.IsValidASIN(ref) {
		return ref, nil
	}
	if asin, ok := domain.ExtractASIN(ref); ok {
		return asin, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidASIN, ref)
}
