// Package medusa implements the Medusa v2 Store API client: HTTP wrapper,
// region resolution, cart lifecycle, catalog queries, and the transforms
// from Medusa wire shapes to the canonical storefront model.
package medusa

import (
	"encoding/json"
	"fmt"
	"sort"
)

// === Envelope types ===

type regionsResponse struct {
	Regions []Region `json:"regions"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type collectionsResponse struct {
	Collections []Collection `json:"collections"`
}

type categoriesResponse struct {
	ProductCategories []Category `json:"product_categories"`
}

type cartResponse struct {
	Cart Cart `json:"cart"`
}

// lineMutationResponse covers both shapes Medusa returns from line-item
// mutations: POST returns {cart}, DELETE returns {parent: <cart>}.
type lineMutationResponse struct {
	Cart   *Cart `json:"cart"`
	Parent *Cart `json:"parent"`
}

func (r *lineMutationResponse) cart() *Cart {
	if r.Parent != nil {
		return r.Parent
	}
	return r.Cart
}

type paymentProvidersResponse struct {
	PaymentProviders []PaymentProvider `json:"payment_providers"`
}

type paymentCollectionResponse struct {
	PaymentCollection PaymentCollection `json:"payment_collection"`
}

// === Region ===

// Region is a Medusa pricing region.
type Region struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currency_code"`
}

// === Catalog ===

// Product is the Medusa product wire shape.
type Product struct {
	ID          string          `json:"id"`
	Handle      string          `json:"handle"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	Images      []Image         `json:"images"`
	Options     []ProductOption `json:"options"`
	Variants    []Variant       `json:"variants"`
	Tags        []ProductTag    `json:"tags"`
	Metadata    map[string]any  `json:"metadata"`
	UpdatedAt   string          `json:"updated_at"`
}

// ProductTag is a free-form label attached to a product.
type ProductTag struct {
	Value string `json:"value"`
}

// Image is a Medusa product image.
type Image struct {
	URL string `json:"url"`
}

// ProductOption is an explicit option definition on a product.
type ProductOption struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Values []OptionValue `json:"values"`
}

// OptionValue tolerates both wire encodings Medusa uses for option values:
// an object {"value": "M"} or a bare string "M".
type OptionValue string

func (v *OptionValue) UnmarshalJSON(data []byte) error {
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Value != "" {
		*v = OptionValue(obj.Value)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = OptionValue(s)
		return nil
	}
	return fmt.Errorf("option value: unsupported shape %s", truncateForError(data))
}

// Variant is the Medusa product variant wire shape. When embedded in a cart
// line it may carry its parent product.
type Variant struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Options         VariantOptions   `json:"options"`
	Prices          []Price          `json:"prices"`
	PriceSet        *PriceSet        `json:"price_set"`
	CalculatedPrice *CalculatedPrice `json:"calculated_price"`
	Product         *Product         `json:"product"`
}

// Price is one currency-specific price entry.
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

// PriceSet wraps prices when the backend expands *variants.price_set.
type PriceSet struct {
	Prices []Price `json:"prices"`
}

// CalculatedPrice tolerates both encodings of a variant's calculated price:
// an object {"calculated_amount": 12.5} or a bare number.
type CalculatedPrice struct {
	Amount float64
}

func (p *CalculatedPrice) UnmarshalJSON(data []byte) error {
	var obj struct {
		CalculatedAmount float64 `json:"calculated_amount"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*p = CalculatedPrice{Amount: obj.CalculatedAmount}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = CalculatedPrice{Amount: n}
		return nil
	}
	return fmt.Errorf("calculated price: unsupported shape %s", truncateForError(data))
}

// VariantOption is one normalized name/value pair on a variant.
type VariantOption struct {
	Name  string
	Value string
}

// VariantOptions normalizes the two wire shapes Medusa emits for variant
// options at the decode boundary, so downstream code sees a single form:
//
//	list:   [{"option": {"title": "Size"}, "value": "M"}, ...]
//	object: {"Size": "M", ...}
//
// The list shape preserves wire order. The object shape has no defined
// order, so pairs are sorted by name for determinism.
type VariantOptions []VariantOption

func (o *VariantOptions) UnmarshalJSON(data []byte) error {
	var list []struct {
		Option *struct {
			Title string `json:"title"`
		} `json:"option"`
		OptionTitle string `json:"option_title"`
		Value       string `json:"value"`
	}
	if err := json.Unmarshal(data, &list); err == nil {
		out := make(VariantOptions, 0, len(list))
		for _, e := range list {
			name := e.OptionTitle
			if e.Option != nil && e.Option.Title != "" {
				name = e.Option.Title
			}
			out = append(out, VariantOption{Name: name, Value: e.Value})
		}
		*o = out
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err == nil {
		out := make(VariantOptions, 0, len(obj))
		for name, val := range obj {
			out = append(out, VariantOption{Name: name, Value: fmt.Sprint(val)})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		*o = out
		return nil
	}

	return fmt.Errorf("variant options: unsupported shape %s", truncateForError(data))
}

// Collection is the Medusa collection wire shape.
type Collection struct {
	ID        string         `json:"id"`
	Handle    string         `json:"handle"`
	Title     string         `json:"title"`
	Metadata  map[string]any `json:"metadata"`
	UpdatedAt string         `json:"updated_at"`
}

// Category is the Medusa product category wire shape. Categories are merged
// into the collection listing alongside real collections.
type Category struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

// === Cart ===

// Cart is the Medusa cart wire shape. Monetary fields are pointers because
// the backend omits them until totals are computed; older API revisions used
// the *_amount names, kept here as fallbacks.
type Cart struct {
	ID                string             `json:"id"`
	CurrencyCode      string             `json:"currency_code"`
	Items             []LineItem         `json:"items"`
	Total             *float64           `json:"total"`
	TotalAmount       *float64           `json:"total_amount"`
	Subtotal          *float64           `json:"subtotal"`
	SubtotalAmount    *float64           `json:"subtotal_amount"`
	TaxTotal          *float64           `json:"tax_total"`
	TaxAmount         *float64           `json:"tax_amount"`
	PaymentCollection *PaymentCollection `json:"payment_collection"`
}

// LineItem is one cart line on the wire.
type LineItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Quantity     int      `json:"quantity"`
	UnitPrice    *float64 `json:"unit_price"`
	Total        *float64 `json:"total"`
	Subtotal     *float64 `json:"subtotal"`
	CurrencyCode string   `json:"currency_code"`
	VariantID    string   `json:"variant_id"`
	Variant      *Variant `json:"variant"`
	Product      *Product `json:"product"`
	Thumbnail    string   `json:"thumbnail"`
	ProductTitle string   `json:"product_title"`
}

// === Payments ===

// PaymentProvider is an enabled payment provider for a region.
type PaymentProvider struct {
	ID string `json:"id"`
}

// PaymentCollection groups the payment sessions attached to a cart.
type PaymentCollection struct {
	ID              string           `json:"id"`
	PaymentSessions []PaymentSession `json:"payment_sessions"`
}

// PaymentSession is one provider session inside a payment collection. Data
// is provider-specific; for Stripe it carries the client_secret.
type PaymentSession struct {
	ID         string         `json:"id"`
	ProviderID string         `json:"provider_id"`
	Data       map[string]any `json:"data"`
}

// ClientSecret extracts the Stripe client secret from session data, empty
// when absent or not a string.
func (s PaymentSession) ClientSecret() string {
	v, _ := s.Data["client_secret"].(string)
	return v
}

// truncateForError keeps decode errors readable when the payload is large.
func truncateForError(data []byte) string {
	const max = 64
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
