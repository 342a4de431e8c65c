package medusa

import (
	"context"
	"time"

	"mero-gateway/internal/model"
)

// Static content pages served by the gateway itself, so /about and
// /returns work without a CMS behind the backend.

var pagesTimestamp = time.Now().UTC().Format(time.RFC3339)

var staticPages = []model.Page{
	{
		ID:          "about",
		Title:       "About Mero Closet",
		Handle:      "about",
		Body:        "<p><strong>Mero Closet</strong> — Gulf luxury abayas, mokhawir, and curated looks.</p><p>Quality fabrics, clean tailoring, and modern details.</p>",
		BodySummary: "Gulf luxury abayas, mokhawir, and curated looks.",
		SEO:         model.SEO{Title: "About Mero Closet", Description: "Gulf luxury abayas and mokhawir."},
		CreatedAt:   pagesTimestamp,
		UpdatedAt:   pagesTimestamp,
	},
	{
		ID:          "returns",
		Title:       "Return Policy",
		Handle:      "returns",
		Body:        "<p>Returns are accepted within 7 days for unused items with original packaging.</p><p>Contact us to start a return.</p>",
		BodySummary: "Returns within 7 days for unused items.",
		SEO:         model.SEO{Title: "Return Policy", Description: "Returns within 7 days for unused items."},
		CreatedAt:   pagesTimestamp,
		UpdatedAt:   pagesTimestamp,
	},
}

// Pages lists the gateway's static content pages.
func (c *Client) Pages(ctx context.Context) ([]model.Page, error) {
	return staticPages, nil
}

// Page returns the static page with the given handle, (nil, nil) when
// there is none.
func (c *Client) Page(ctx context.Context, handle string) (*model.Page, error) {
	for i := range staticPages {
		if staticPages[i].Handle == handle {
			return &staticPages[i], nil
		}
	}
	return nil, nil
}
