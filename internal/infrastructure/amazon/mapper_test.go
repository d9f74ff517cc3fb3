package amazon

import (
	"testing"

	"github.com/pricepulse/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapGetItemsResponse_OptionalFieldsAbsent(t *testing.T) {
	body := []byte(`{
		"ItemsResult": {
			"Items": [{
				"ASIN": "B07BAREITEM",
				"DetailPageURL": "https://www.amazon.com/dp/B07BAREITEM",
				"ItemInfo": {"Title": {"DisplayValue": "Bare Item"}}
			}]
		}
	}`)

	products, apiErr := mapGetItemsResponse(body, 1)

	require.Nil(t, apiErr)
	require.Len(t, products, 1)
	assert.Equal(t, "B07BAREITEM", products[0].ASIN)
	assert.Equal(t, "Bare Item", products[0].Title)
	assert.Nil(t, products[0].Price, "missing price maps to absent, not zero")
	assert.Nil(t, products[0].OriginalPrice)
	assert.Empty(t, products[0].ImageURL)
}

func TestMapGetItemsResponse_NonNumericPrice(t *testing.T) {
	body := []byte(`{
		"ItemsResult": {
			"Items": [{
				"ASIN": "B07BADPRICE",
				"ItemInfo": {"Title": {"DisplayValue": "Odd Price"}},
				"Offers": {"Listings": [{"Price": {"Amount": "not-a-number"}}]}
			}]
		}
	}`)

	products, apiErr := mapGetItemsResponse(body, 1)

	require.Nil(t, apiErr)
	require.Len(t, products, 1)
	assert.Nil(t, products[0].Price, "non-numeric price maps to absent, never zero-by-accident")
}

func TestMapGetItemsResponse_NegativePrice(t *testing.T) {
	body := []byte(`{
		"ItemsResult": {
			"Items": [{
				"ASIN": "B07NEGPRICE",
				"ItemInfo": {"Title": {"DisplayValue": "Negative"}},
				"Offers": {"Listings": [{"Price": {"Amount": -5}}]}
			}]
		}
	}`)

	products, apiErr := mapGetItemsResponse(body, 1)

	require.Nil(t, apiErr)
	assert.Nil(t, products[0].Price)
}

func TestMapGetItemsResponse_MissingTitle(t *testing.T) {
	body := []byte(`{
		"ItemsResult": {
			"Items": [{"ASIN": "B07NOTITLE1"}]
		}
	}`)

	products, apiErr := mapGetItemsResponse(body, 1)

	assert.Nil(t, products)
	require.NotNil(t, apiErr)
	assert.ErrorIs(t, apiErr, domain.ErrUpstreamFormat)
	assert.Contains(t, apiErr.Message, "B07NOTITLE1")
}

func TestMapGetItemsResponse_MissingASIN(t *testing.T) {
	body := []byte(`{
		"ItemsResult": {
			"Items": [{"ItemInfo": {"Title": {"DisplayValue": "Ghost"}}}]
		}
	}`)

	_, apiErr := mapGetItemsResponse(body, 1)

	require.NotNil(t, apiErr)
	assert.ErrorIs(t, apiErr, domain.ErrUpstreamFormat)
}

func TestMapGetItemsResponse_Undecodable(t *testing.T) {
	_, apiErr := mapGetItemsResponse([]byte(`<html>maintenance</html>`), 1)

	require.NotNil(t, apiErr)
	assert.ErrorIs(t, apiErr, domain.ErrUpstreamFormat)
}

func TestMapGetItemsResponse_EmptyEnvelopeIsNotFound(t *testing.T) {
	_, apiErr := mapGetItemsResponse([]byte(`{"ItemsResult": {"Items": []}}`), 2)

	require.NotNil(t, apiErr)
	assert.ErrorIs(t, apiErr, domain.ErrProductNotFound)
	assert.NotErrorIs(t, apiErr, domain.ErrUpstreamFormat)
}

func TestMapGetItemsResponse_EmbeddedThrottleError(t *testing.T) {
	body := []byte(`{
		"Errors": [{"Code": "TooManyRequestsException", "Message": "limit reached"}]
	}`)

	_, apiErr := mapGetItemsResponse(body, 1)

	require.NotNil(t, apiErr)
	assert.ErrorIs(t, apiErr, domain.ErrRateLimited)
}

func TestMapSearchItemsResponse(t *testing.T) {
	body := []byte(`{
		"SearchResult": {
			"TotalResultCount": 2,
			"Items": [
				{
					"ASIN": "B01RESULT01",
					"DetailPageURL": "https://www.amazon.com/dp/B01RESULT01",
					"ItemInfo": {"Title": {"DisplayValue": "First"}},
					"Offers": {"Listings": [{"Price": {"Amount": 12.5}}]},
					"Images": {"Primary": {"Large": {"URL": "https://img/1.jpg"}}}
				},
				{
					"ASIN": "B01RESULT02",
					"ItemInfo": {"Title": {"DisplayValue": "Second"}}
				}
			]
		}
	}`)

	results, apiErr := mapSearchItemsResponse(body)

	require.Nil(t, apiErr)
	require.Len(t, results, 2)
	require.NotNil(t, results[0].Price)
	assert.Equal(t, 12.5, *results[0].Price)
	assert.Equal(t, "https://img/1.jpg", results[0].ImageURL)
	assert.Nil(t, results[1].Price)
}

func TestMapSearchItemsResponse_Empty(t *testing.T) {
	_, apiErr := mapSearchItemsResponse([]byte(`{"SearchResult": {"Items": []}}`))

	require.NotNil(t, apiErr)
	assert.ErrorIs(t, apiErr, domain.ErrProductNotFound)
}
