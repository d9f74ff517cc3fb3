package amazon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pricepulse/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		AccessKey:         "test-access-key",
		SecretKey:         "test-secret-key",
		PartnerTag:        "test-tag-20",
		Host:              "webservices.amazon.com",
		Region:            "us-east-1",
		Marketplace:       "www.amazon.com",
		RequestsPerSecond: 1000,
		BaseURL:           baseURL,
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(testConfig(""))

	require.NoError(t, err)
	assert.Equal(t, "test-tag-20", client.partnerTag)
	assert.Equal(t, "https://webservices.amazon.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestNewClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access key", func(c *Config) { c.AccessKey = "" }},
		{"missing secret key", func(c *Config) { c.SecretKey = "" }},
		{"missing partner tag", func(c *Config) { c.PartnerTag = "" }},
		{"missing region", func(c *Config) { c.Region = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("")
			tt.mutate(&cfg)

			client, err := NewClient(cfg)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, domain.ErrMissingCredentials)
		})
	}
}

func TestGetItems_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, pathGetItems, r.URL.Path)
		assert.Equal(t, targetGetItems, r.Header.Get("X-Amz-Target"))
		assert.Equal(t, contentEncoding, r.Header.Get("Content-Encoding"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "AWS4-HMAC-SHA256 Credential=test-access-key/"))
		assert.Contains(t, r.Header.Get("Authorization"),
			"SignedHeaders=content-encoding;content-type;host;x-amz-date;x-amz-target")
		assert.Regexp(t, `^\d{8}T\d{6}Z$`, r.Header.Get("X-Amz-Date"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "test-tag-20", payload["PartnerTag"])
		assert.Equal(t, "Associates", payload["PartnerType"])
		assert.Equal(t, "www.amazon.com", payload["Marketplace"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"ItemsResult": {
				"Items": [{
					"ASIN": "B07TEST123",
					"DetailPageURL": "https://www.amazon.com/dp/B07TEST123",
					"ItemInfo": {"Title": {"DisplayValue": "Test Widget"}},
					"Offers": {"Listings": [{
						"Price": {"Amount": "19.99"},
						"SavingBasis": {"Amount": "29.99"}
					}]},
					"Images": {"Primary": {"Large": {"URL": "https://img.example.com/x.jpg"}}}
				}]
			}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	products, err := client.GetItems(context.Background(), []string{"B07TEST123"})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "B07TEST123", products[0].ASIN)
	assert.Equal(t, "Test Widget", products[0].Title)
	require.NotNil(t, products[0].Price)
	assert.Equal(t, 19.99, *products[0].Price)
	require.NotNil(t, products[0].OriginalPrice)
	assert.Equal(t, 29.99, *products[0].OriginalPrice)
	assert.Equal(t, "https://img.example.com/x.jpg", products[0].ImageURL)
	assert.Equal(t, "https://www.amazon.com/dp/B07TEST123", products[0].DetailPageURL)
}

func TestGetItems_ValidationBeforeDispatch(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		_, err := client.GetItems(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("batch over limit", func(t *testing.T) {
		asins := make([]string, maxBatchSize+1)
		for i := range asins {
			asins[i] = "B000000000"
		}
		_, err := client.GetItems(ctx, asins)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("malformed identifier", func(t *testing.T) {
		_, err := client.GetItems(ctx, []string{"short"})
		assert.ErrorIs(t, err, domain.ErrInvalidASIN)
	})

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "validation errors must never reach the remote")
}

func TestSearchItems_KeywordTooShort(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	results, err := client.SearchItems(context.Background(), "ab", 5)

	assert.Nil(t, results)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "expected zero network calls")
}

func TestSearchItems_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathSearchItems, r.URL.Path)
		assert.Equal(t, targetSearchItems, r.Header.Get("X-Amz-Target"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "mechanical keyboard", payload["Keywords"])
		assert.Equal(t, "All", payload["SearchIndex"])
		assert.Equal(t, float64(5), payload["ItemCount"])

		w.Write([]byte(`{
			"SearchResult": {
				"TotalResultCount": 1,
				"Items": [{
					"ASIN": "B09KEYBRD1",
					"DetailPageURL": "https://www.amazon.com/dp/B09KEYBRD1",
					"ItemInfo": {"Title": {"DisplayValue": "Mechanical Keyboard"}},
					"Offers": {"Listings": [{"Price": {"Amount": 79.5}}]}
				}]
			}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	results, err := client.SearchItems(context.Background(), "mechanical keyboard", 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "B09KEYBRD1", results[0].ASIN)
	assert.Equal(t, "Mechanical Keyboard", results[0].Title)
	require.NotNil(t, results[0].Price)
	assert.Equal(t, 79.5, *results[0].Price)
}

func TestSearchItems_ClampItemCount(t *testing.T) {
	var gotCount float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		gotCount = payload["ItemCount"].(float64)
		w.Write([]byte(`{"SearchResult": {"Items": [{"ASIN": "B000000001", "ItemInfo": {"Title": {"DisplayValue": "T"}}}]}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.SearchItems(context.Background(), "abc", 50)
	require.NoError(t, err)
	assert.Equal(t, float64(maxItemCount), gotCount)
}

func TestGetItems_Throttled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"Errors": [{"Code": "TooManyRequestsException", "Message": "slow down"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.GetItems(context.Background(), []string{"B000000000"})

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.NotErrorIs(t, err, domain.ErrTransient)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "TooManyRequestsException")
}

func TestGetItems_AuthRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"Errors": [{"Code": "InvalidSignature", "Message": "The request signature we calculated does not match"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.GetItems(context.Background(), []string{"B000000000"})

	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.NotErrorIs(t, err, domain.ErrTransient)
}

func TestGetItems_EmptyItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ItemsResult": {"Items": []}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.GetItems(context.Background(), []string{"B000000000"})

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NotErrorIs(t, err, domain.ErrUpstreamFormat)
}

func TestGetItems_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.GetItems(context.Background(), []string{"B000000000"})

	assert.ErrorIs(t, err, domain.ErrTransient)
}

func TestGetItems_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.GetItems(ctx, []string{"B000000000"})

	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Less(t, time.Since(start), time.Second, "cancellation must abandon the in-flight call")
}

func TestGetItems_DeterministicSigningTime(t *testing.T) {
	var auth1, auth2 string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth1 == "" {
			auth1 = r.Header.Get("Authorization")
		} else {
			auth2 = r.Header.Get("Authorization")
		}
		w.Write([]byte(`{"ItemsResult": {"Items": [{"ASIN": "B000000000", "ItemInfo": {"Title": {"DisplayValue": "T"}}}]}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)
	client.now = func() time.Time { return time.Date(2025, 5, 29, 3, 41, 54, 0, time.UTC) }

	ctx := context.Background()
	_, err = client.GetItems(ctx, []string{"B000000000"})
	require.NoError(t, err)
	_, err = client.GetItems(ctx, []string{"B000000000"})
	require.NoError(t, err)

	// Fixed clock and fixed payload produce a byte-identical signature.
	assert.NotEmpty(t, auth1)
	assert.Equal(t, auth1, auth2)
}
