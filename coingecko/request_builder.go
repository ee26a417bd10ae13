package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// Base URL for public API
	COINGECKO_PUBLIC_URL = "https://api.coingecko.com"
	// Base URL for Pro API
	COINGECKO_PRO_URL = "https://pro-api.coingecko.com"
)

// buildURL safely combines a base URL with a path
func buildURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	trimmedPath := strings.TrimLeft(path, "/")

	return baseURL + "/" + trimmedPath
}

// RequestBuilder implements the Builder pattern for CoinGecko API requests
type RequestBuilder struct {
	baseURL    string
	httpMethod string
	apiPath    string
	params     map[string]string
	apiKey     string
	keyType    KeyType
	userAgent  string
	headers    map[string]string
}

// NewRequestBuilder creates a new base request builder for CoinGecko endpoints
func NewRequestBuilder(baseURL, apiPath string) *RequestBuilder {
	rb := &RequestBuilder{
		baseURL:    baseURL,
		apiPath:    apiPath,
		httpMethod: "GET",
		params:     make(map[string]string),
		headers:    make(map[string]string),
		userAgent:  "Mozilla/5.0 Crypto-Dashboard",
	}

	rb.headers["Accept"] = "application/json"

	return rb
}

// NewMarketsRequestBuilder creates a request builder for the /coins/markets endpoint
func NewMarketsRequestBuilder(baseURL string) *RequestBuilder {
	return NewRequestBuilder(baseURL, "/api/v3/coins/markets")
}

// NewOHLCRequestBuilder creates a request builder for the /coins/{id}/ohlc endpoint
func NewOHLCRequestBuilder(baseURL, coinID string) *RequestBuilder {
	return NewRequestBuilder(baseURL, fmt.Sprintf("/api/v3/coins/%s/ohlc", coinID))
}

// With adds a custom parameter to the URL query
func (rb *RequestBuilder) With(key, value string) *RequestBuilder {
	rb.params[key] = value
	return rb
}

// WithCurrency adds vs_currency parameter
func (rb *RequestBuilder) WithCurrency(currency string) *RequestBuilder {
	if currency != "" {
		rb.params["vs_currency"] = currency
	}
	return rb
}

// WithOrder adds order parameter
func (rb *RequestBuilder) WithOrder(order string) *RequestBuilder {
	if order != "" {
		rb.params["order"] = order
	}
	return rb
}

// WithPerPage adds per_page parameter
func (rb *RequestBuilder) WithPerPage(perPage int) *RequestBuilder {
	if perPage > 0 {
		rb.params["per_page"] = strconv.Itoa(perPage)
	}
	return rb
}

// WithPage adds page parameter
func (rb *RequestBuilder) WithPage(page int) *RequestBuilder {
	if page > 0 {
		rb.params["page"] = strconv.Itoa(page)
	}
	return rb
}

// WithDays adds days parameter
func (rb *RequestBuilder) WithDays(days int) *RequestBuilder {
	if days > 0 {
		rb.params["days"] = strconv.Itoa(days)
	}
	return rb
}

// WithApiKey sets the API key and its type
func (rb *RequestBuilder) WithApiKey(apiKey string, keyType KeyType) *RequestBuilder {
	if apiKey != "" {
		rb.apiKey = apiKey
		rb.keyType = keyType
	}
	return rb
}

// WithUserAgent sets the User-Agent header
func (rb *RequestBuilder) WithUserAgent(userAgent string) *RequestBuilder {
	rb.userAgent = userAgent
	return rb
}

// GetApiKey returns the API key and its type
func (rb *RequestBuilder) GetApiKey() (string, KeyType) {
	return rb.apiKey, rb.keyType
}

// BuildURL builds the complete URL for the request
func (rb *RequestBuilder) BuildURL() string {
	fullPath := buildURL(rb.baseURL, rb.apiPath)

	query := url.Values{}

	for key, value := range rb.params {
		query.Add(key, value)
	}

	if rb.apiKey != "" {
		switch rb.keyType {
		case ProKey:
			query.Add("x_cg_pro_api_key", rb.apiKey)
		case DemoKey:
			query.Add("x_cg_demo_api_key", rb.apiKey)
		}
	}

	finalURL := fullPath
	queryString := query.Encode()
	if queryString != "" {
		finalURL = fmt.Sprintf("%s?%s", finalURL, queryString)
	}

	return finalURL
}

// Build creates an http.Request object bound to the given context
func (rb *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, rb.httpMethod, rb.BuildURL(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", rb.userAgent)

	for key, value := range rb.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
