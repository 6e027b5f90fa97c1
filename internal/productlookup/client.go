// Package productlookup resolves barcodes against an Open Food Facts
// compatible product database.
package productlookup

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the public Open Food Facts instance.
const DefaultBaseURL = "https://world.openfoodfacts.org"

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

// Product is what the product database knows about a barcode.
type Product struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"product_name"`
	Brands   string `json:"brands"`
	ImageURL string `json:"image_url"`
}

type productResponse struct {
	Status  int      `json:"status"`
	Product *Product `json:"product"`
}

// Client queries the product database over HTTP.
type Client struct {
	http *resty.Client
}

// New returns a client for baseURL. An empty baseURL or non-positive timeout
// selects the defaults.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "PantryPal/1.0")

	return &Client{http: c}
}

// Lookup returns the product registered under barcode, or nil if the
// database does not know it.
func (c *Client) Lookup(ctx context.Context, barcode string) (*Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("barcode required")
	}

	var body productResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("barcode", barcode).
		SetResult(&body).
		Get("/api/v0/product/{barcode}.json")
	if err != nil {
		return nil, fmt.Errorf("looking up barcode %s: %w", barcode, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("looking up barcode %s: unexpected status %s", barcode, resp.Status())
	}
	if body.Status != 1 || body.Product == nil {
		return nil, nil
	}

	p := *body.Product
	p.Barcode = barcode
	p.Name = strings.TrimSpace(p.Name)
	return &p, nil
}
