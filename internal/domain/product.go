package domain

// Product represents a catalog item returned from a bulk lookup.
// Price fields are pointers so that "no offer available" is distinguishable
// from a zero price; only ASIN and Title are guaranteed present.
type Product struct {
	ASIN          string   `json:"asin"`
	Title         string   `json:"title"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	DetailPageURL string   `json:"detailPageUrl"`
}

// SearchResult is the lighter record returned in bulk from keyword search.
type SearchResult struct {
	ASIN          string   `json:"asin"`
	Title         string   `json:"title"`
	Price         *float64 `json:"price,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	DetailPageURL string   `json:"detailPageUrl"`
}

// LookupRequest is an incoming bulk lookup request.
type LookupRequest struct {
	ASINs []string `json:"asins"`
	URLs  []string `json:"urls"`
}

// SearchRequest is an incoming keyword search request.
type SearchRequest struct {
	Keywords  string `json:"keywords" binding:"required"`
	ItemCount int    `json:"itemCount,omitempty"`
}
