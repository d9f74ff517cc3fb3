package amazon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pricepulse/backend/internal/domain"
	"github.com/pricepulse/backend/internal/signing"
	"golang.org/x/time/rate"
)

const (
	serviceName = "ProductAdvertisingAPI"
	partnerType = "Associates"

	pathGetItems    = "/paapi5/getitems"
	pathSearchItems = "/paapi5/searchitems"

	targetGetItems    = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems"
	targetSearchItems = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"

	contentType     = "application/json; charset=utf-8"
	contentEncoding = "amz-1.0"

	// GetItems accepts at most 10 ASINs per request.
	maxBatchSize = 10

	// SearchItems returns at most 10 items per page.
	maxItemCount = 10

	// Keywords shorter than this are rejected before any network activity.
	// A quality gate on our side, not a remote constraint.
	minKeywordLength = 3

	defaultTimeout = 12 * time.Second
)

// Response fields requested on every lookup.
var lookupResources = []string{
	"ItemInfo.Title",
	"Offers.Listings.Price",
	"Offers.Listings.SavingBasis",
	"Images.Primary.Large",
}

// Lighter field set for keyword search.
var searchResources = []string{
	"ItemInfo.Title",
	"Offers.Listings.Price",
	"Images.Primary.Large",
}

// Config holds everything needed to construct a Client.
type Config struct {
	AccessKey   string
	SecretKey   string
	PartnerTag  string
	Host        string
	Region      string
	Marketplace string
	Timeout     time.Duration

	// RequestsPerSecond bounds outbound call rate. PA-API throttles
	// aggressively at 1 TPS for new accounts.
	RequestsPerSecond float64

	// BaseURL overrides the https://<Host> endpoint. Used by tests.
	BaseURL string
}

// Client handles communication with the Amazon Product Advertising API.
// Stateless aside from the immutable credentials; safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	creds       signing.Credentials
	partnerTag  string
	marketplace string
	host        string
	baseURL     string
	rateLimiter *rate.Limiter
	now         func() time.Time
	debug       bool
}

// NewClient creates a new PA-API client. Missing credentials are a
// configuration error raised here, before any network activity.
func NewClient(cfg Config) (*Client, error) {
	creds := signing.Credentials{
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		Service:   serviceName,
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingCredentials, err)
	}
	if cfg.PartnerTag == "" {
		return nil, fmt.Errorf("%w: partner tag is required", domain.ErrMissingCredentials)
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: api host is required", domain.ErrMissingCredentials)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = 1.0
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + cfg.Host
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		creds:       creds,
		partnerTag:  cfg.PartnerTag,
		marketplace: cfg.Marketplace,
		host:        cfg.Host,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 1),
		now:         time.Now,
	}, nil
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

type getItemsPayload struct {
	ItemIds     []string `json:"ItemIds"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

type searchItemsPayload struct {
	Keywords    string   `json:"Keywords"`
	ItemCount   int      `json:"ItemCount"`
	SearchIndex string   `json:"SearchIndex"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

// GetItems looks up products by ASIN in bulk. Empty lists, oversized batches,
// and malformed ASINs are rejected before dispatch.
func (c *Client) GetItems(ctx context.Context, asins []string) ([]domain.Product, error) {
	if len(asins) == 0 {
		return nil, &domain.APIError{Err: domain.ErrInvalidRequest, Message: "empty ASIN list"}
	}
	if len(asins) > maxBatchSize {
		return nil, &domain.APIError{
			Err:     domain.ErrInvalidRequest,
			Message: fmt.Sprintf("%d ASINs exceeds batch limit of %d", len(asins), maxBatchSize),
		}
	}
	for _, asin := range asins {
		if !domain.IsValidASIN(asin) {
			return nil, &domain.APIError{Err: domain.ErrInvalidASIN, Message: asin}
		}
	}

	payload := getItemsPayload{
		ItemIds:     asins,
		Resources:   lookupResources,
		PartnerTag:  c.partnerTag,
		PartnerType: partnerType,
		Marketplace: c.marketplace,
	}

	body, err := c.post(ctx, pathGetItems, targetGetItems, payload)
	if err != nil {
		return nil, err
	}

	products, apiErr := mapGetItemsResponse(body, len(asins))
	if apiErr != nil {
		return nil, apiErr
	}

	log.Printf("[Amazon] GetItems returned %d of %d requested items", len(products), len(asins))
	return products, nil
}

// SearchItems searches the catalog by keyword. Keywords shorter than 3 runes
// are rejected before dispatch; itemCount is clamped to the remote's 1..10
// window.
func (c *Client) SearchItems(ctx context.Context, keywords string, itemCount int) ([]domain.SearchResult, error) {
	if len([]rune(keywords)) < minKeywordLength {
		return nil, &domain.APIError{
			Err:     domain.ErrInvalidRequest,
			Message: fmt.Sprintf("keyword %q shorter than %d characters", keywords, minKeywordLength),
		}
	}
	if itemCount < 1 {
		itemCount = maxItemCount
	}
	if itemCount > maxItemCount {
		itemCount = maxItemCount
	}

	payload := searchItemsPayload{
		Keywords:    keywords,
		ItemCount:   itemCount,
		SearchIndex: "All",
		Resources:   searchResources,
		PartnerTag:  c.partnerTag,
		PartnerType: partnerType,
		Marketplace: c.marketplace,
	}

	body, err := c.post(ctx, pathSearchItems, targetSearchItems, payload)
	if err != nil {
		return nil, err
	}

	results, apiErr := mapSearchItemsResponse(body)
	if apiErr != nil {
		return nil, apiErr
	}

	log.Printf("[Amazon] SearchItems found %d items for %q", len(results), keywords)
	return results, nil
}

// post serializes the payload, signs the request, and issues one HTTP POST.
// No retrying here: transport failures come back as transient classified
// errors and retry policy belongs to the caller.
func (c *Client) post(ctx context.Context, path, target string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &domain.APIError{Err: domain.ErrTransient, Message: fmt.Sprintf("rate limiter wait: %v", err)}
	}

	// Signing context is computed fresh per call; a reused timestamp beyond
	// the remote's clock-skew tolerance fails authentication.
	st := signing.NewSigningTime(c.now())
	headers := []signing.Header{
		{Name: "content-encoding", Value: contentEncoding},
		{Name: "content-type", Value: contentType},
		{Name: "host", Value: c.host},
		{Name: "x-amz-date", Value: st.TimeFormat()},
		{Name: "x-amz-target", Value: target},
	}
	canonical, signedHeaders := signing.BuildCanonicalRequest(http.MethodPost, path, "", headers, signing.HashPayload(body))
	authorization, err := signing.Sign(c.creds, st, signedHeaders, canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingCredentials, err)
	}

	if c.debug {
		log.Printf("[Amazon] POST %s target=%s payload=%s", path, target, string(body))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Encoding", contentEncoding)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Amz-Date", st.TimeFormat())
	req.Header.Set("X-Amz-Target", target)
	req.Header.Set("Authorization", authorization)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout, connection refused, DNS failure. Context cancellation
		// propagates to the in-flight call through the request context.
		return nil, &domain.APIError{Err: domain.ErrTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.APIError{Err: domain.ErrTransient, Message: fmt.Sprintf("reading response body: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := classify(resp.StatusCode, respBody)
		log.Printf("[Amazon] %s failed: %v", path, apiErr)
		return nil, apiErr
	}

	return respBody, nil
}
