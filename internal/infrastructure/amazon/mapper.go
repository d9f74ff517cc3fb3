package amazon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pricepulse/backend/internal/domain"
)

// amount is a partial-tolerant price decoder. PA-API renders amounts as bare
// numbers, but adjacent endpoints and older payloads quote them as strings.
// Non-numeric, negative, or missing values decode to "absent", never to an
// accidental zero.
type amount struct {
	value   float64
	present bool
}

func (a *amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	a.value = v
	a.present = true
	return nil
}

func (a amount) ptr() *float64 {
	if !a.present {
		return nil
	}
	v := a.value
	return &v
}

// Raw response envelope. Everything below the items array is optional and
// decoded through pointers so absence is distinguishable from malformation.

type priceBlock struct {
	Amount amount `json:"Amount"`
}

type listing struct {
	Price       *priceBlock `json:"Price"`
	SavingBasis *priceBlock `json:"SavingBasis"`
}

type offersBlock struct {
	Listings []listing `json:"Listings"`
}

type titleBlock struct {
	DisplayValue string `json:"DisplayValue"`
}

type itemInfoBlock struct {
	Title *titleBlock `json:"Title"`
}

type imageVariant struct {
	URL string `json:"URL"`
}

type primaryImage struct {
	Large *imageVariant `json:"Large"`
}

type imagesBlock struct {
	Primary *primaryImage `json:"Primary"`
}

type rawItem struct {
	ASIN          string         `json:"ASIN"`
	DetailPageURL string         `json:"DetailPageURL"`
	ItemInfo      *itemInfoBlock `json:"ItemInfo"`
	Offers        *offersBlock   `json:"Offers"`
	Images        *imagesBlock   `json:"Images"`
}

type itemsResult struct {
	Items []rawItem `json:"Items"`
}

type searchResult struct {
	Items            []rawItem `json:"Items"`
	TotalResultCount int       `json:"TotalResultCount"`
}

type getItemsResponse struct {
	ItemsResult *itemsResult  `json:"ItemsResult"`
	Errors      []remoteError `json:"Errors"`
}

type searchItemsResponse struct {
	SearchResult *searchResult `json:"SearchResult"`
	Errors       []remoteError `json:"Errors"`
}

// mapGetItemsResponse converts a lookup envelope into domain products. An
// empty items array where at least one item was requested is a not-found,
// unless the embedded error list says the remote was throttling.
func mapGetItemsResponse(body []byte, requested int) ([]domain.Product, *domain.APIError) {
	var envelope getItemsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, upstreamError(fmt.Sprintf("undecodable response body: %v", err), body)
	}

	if envelope.ItemsResult == nil || len(envelope.ItemsResult.Items) == 0 {
		if len(envelope.Errors) > 0 && isThrottleCode(envelope.Errors[0].Code) {
			return nil, &domain.APIError{
				Err:        domain.ErrRateLimited,
				Message:    envelope.Errors[0].Message,
				StatusCode: http.StatusOK,
				Body:       string(body),
			}
		}
		return nil, &domain.APIError{
			Err:        domain.ErrProductNotFound,
			Message:    fmt.Sprintf("no items returned for %d requested", requested),
			StatusCode: http.StatusOK,
			Body:       string(body),
		}
	}

	products := make([]domain.Product, 0, len(envelope.ItemsResult.Items))
	for _, item := range envelope.ItemsResult.Items {
		product, err := mapProduct(item)
		if err != nil {
			return nil, upstreamError(err.Error(), body)
		}
		products = append(products, product)
	}
	return products, nil
}

// mapSearchItemsResponse converts a search envelope into domain results.
func mapSearchItemsResponse(body []byte) ([]domain.SearchResult, *domain.APIError) {
	var envelope searchItemsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, upstreamError(fmt.Sprintf("undecodable response body: %v", err), body)
	}

	if envelope.SearchResult == nil || len(envelope.SearchResult.Items) == 0 {
		return nil, &domain.APIError{
			Err:        domain.ErrProductNotFound,
			Message:    "no search results",
			StatusCode: http.StatusOK,
			Body:       string(body),
		}
	}

	results := make([]domain.SearchResult, 0, len(envelope.SearchResult.Items))
	for _, item := range envelope.SearchResult.Items {
		product, err := mapProduct(item)
		if err != nil {
			return nil, upstreamError(err.Error(), body)
		}
		results = append(results, domain.SearchResult{
			ASIN:          product.ASIN,
			Title:         product.Title,
			Price:         product.Price,
			ImageURL:      product.ImageURL,
			DetailPageURL: product.DetailPageURL,
		})
	}
	return results, nil
}

// mapProduct pulls the fields we care about from one raw item. ASIN and title
// are required; everything else maps to an explicit "no value" when absent.
func mapProduct(item rawItem) (domain.Product, error) {
	if item.ASIN == "" {
		return domain.Product{}, fmt.Errorf("item missing ASIN")
	}
	if item.ItemInfo == nil || item.ItemInfo.Title == nil || item.ItemInfo.Title.DisplayValue == "" {
		return domain.Product{}, fmt.Errorf("item %s missing title", item.ASIN)
	}

	product := domain.Product{
		ASIN:          item.ASIN,
		Title:         item.ItemInfo.Title.DisplayValue,
		DetailPageURL: item.DetailPageURL,
	}

	if item.Offers != nil && len(item.Offers.Listings) > 0 {
		first := item.Offers.Listings[0]
		if first.Price != nil {
			product.Price = first.Price.Amount.ptr()
		}
		if first.SavingBasis != nil {
			product.OriginalPrice = first.SavingBasis.Amount.ptr()
		}
	}

	if item.Images != nil && item.Images.Primary != nil && item.Images.Primary.Large != nil {
		product.ImageURL = item.Images.Primary.Large.URL
	}

	return product, nil
}

func upstreamError(message string, body []byte) *domain.APIError {
	return &domain.APIError{
		Err:        domain.ErrUpstreamFormat,
		Message:    message,
		StatusCode: http.StatusOK,
		Body:       string(body),
	}
}
