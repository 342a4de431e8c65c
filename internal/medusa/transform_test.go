package medusa

import (
	"encoding/json"
	"testing"

	"mero-gateway/internal/model"
)

func f(v float64) *float64 { return &v }

func TestVariantOptionsUnmarshalListShape(t *testing.T) {
	data := []byte(`[
		{"option": {"title": "Size"}, "value": "M"},
		{"option": {"title": "Color"}, "value": "Black"}
	]`)

	var opts VariantOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := VariantOptions{{Name: "Size", Value: "M"}, {Name: "Color", Value: "Black"}}
	if len(opts) != len(want) {
		t.Fatalf("got %d options, want %d", len(opts), len(want))
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Errorf("option %d = %+v, want %+v", i, opts[i], want[i])
		}
	}
}

func TestVariantOptionsUnmarshalObjectShape(t *testing.T) {
	data := []byte(`{"Size": "M", "Color": "Black"}`)

	var opts VariantOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Object shape has no wire order; pairs come back sorted by name.
	want := VariantOptions{{Name: "Color", Value: "Black"}, {Name: "Size", Value: "M"}}
	if len(opts) != len(want) {
		t.Fatalf("got %d options, want %d", len(opts), len(want))
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Errorf("option %d = %+v, want %+v", i, opts[i], want[i])
		}
	}
}

func TestCalculatedPriceUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		data string
		want float64
	}{
		{name: "object shape", data: `{"calculated_amount": 12.5}`, want: 12.5},
		{name: "scalar shape", data: `9.9`, want: 9.9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p CalculatedPrice
			if err := json.Unmarshal([]byte(tc.data), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.Amount != tc.want {
				t.Errorf("amount = %v, want %v", p.Amount, tc.want)
			}
		})
	}
}

func TestOptionValueUnmarshal(t *testing.T) {
	var v OptionValue
	if err := json.Unmarshal([]byte(`{"value": "M"}`), &v); err != nil {
		t.Fatalf("object shape: %v", err)
	}
	if v != "M" {
		t.Errorf("object shape = %q, want M", v)
	}
	if err := json.Unmarshal([]byte(`"L"`), &v); err != nil {
		t.Fatalf("string shape: %v", err)
	}
	if v != "L" {
		t.Errorf("string shape = %q, want L", v)
	}
}

func TestPickVariantPrice(t *testing.T) {
	tests := []struct {
		name         string
		variant      Variant
		currency     string
		wantAmount   string
		wantCurrency string
	}{
		{
			name: "currency match in prices",
			variant: Variant{Prices: []Price{
				{Amount: 10, CurrencyCode: "usd"},
				{Amount: 4.5, CurrencyCode: "bhd"},
			}},
			currency:     "bhd",
			wantAmount:   "4.5",
			wantCurrency: "BHD",
		},
		{
			name: "match is case-insensitive",
			variant: Variant{Prices: []Price{
				{Amount: 4.5, CurrencyCode: "BHD"},
			}},
			currency:     "bhd",
			wantAmount:   "4.5",
			wantCurrency: "BHD",
		},
		{
			name: "price_set fallback when prices empty",
			variant: Variant{PriceSet: &PriceSet{Prices: []Price{
				{Amount: 7, CurrencyCode: "bhd"},
			}}},
			currency:     "bhd",
			wantAmount:   "7",
			wantCurrency: "BHD",
		},
		{
			name:         "calculated price when no match",
			variant:      Variant{CalculatedPrice: &CalculatedPrice{Amount: 3.25}},
			currency:     "bhd",
			wantAmount:   "3.25",
			wantCurrency: "BHD",
		},
		{
			name: "no match stamps requested currency",
			variant: Variant{
				Prices:          []Price{{Amount: 10, CurrencyCode: "usd"}},
				CalculatedPrice: &CalculatedPrice{Amount: 2},
			},
			currency:     "bhd",
			wantAmount:   "2",
			wantCurrency: "BHD",
		},
		{
			name:         "no price data at all",
			variant:      Variant{},
			currency:     "bhd",
			wantAmount:   "0",
			wantCurrency: "BHD",
		},
		{
			name:         "empty currency falls back to bhd",
			variant:      Variant{},
			currency:     "",
			wantAmount:   "0",
			wantCurrency: "BHD",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pickVariantPrice(&tc.variant, tc.currency)
			if got.Amount != tc.wantAmount {
				t.Errorf("amount = %q, want %q", got.Amount, tc.wantAmount)
			}
			if got.CurrencyCode != tc.wantCurrency {
				t.Errorf("currency = %q, want %q", got.CurrencyCode, tc.wantCurrency)
			}
		})
	}
}

func TestMapProductExplicitOptions(t *testing.T) {
	p := Product{
		ID:     "prod_1",
		Handle: "classic-abaya",
		Title:  "Classic Abaya",
		Options: []ProductOption{
			{ID: "opt_size", Title: "Size", Values: []OptionValue{"S", "M", "M", "L"}},
		},
		Variants: []Variant{
			{ID: "var_1", Title: "S", Prices: []Price{{Amount: 20, CurrencyCode: "bhd"}}},
		},
	}

	got := mapProduct(&p, "bhd")
	if len(got.Options) != 1 {
		t.Fatalf("got %d options, want 1", len(got.Options))
	}
	opt := got.Options[0]
	if opt.ID != "opt_size" || opt.Name != "Size" {
		t.Errorf("option = %+v", opt)
	}
	// Duplicate "M" deduplicated, order preserved.
	want := []string{"S", "M", "L"}
	if len(opt.Values) != len(want) {
		t.Fatalf("values = %v, want %v", opt.Values, want)
	}
	for i := range want {
		if opt.Values[i] != want[i] {
			t.Errorf("values[%d] = %q, want %q", i, opt.Values[i], want[i])
		}
	}
}

func TestMapProductDerivedOptions(t *testing.T) {
	p := Product{
		ID: "prod_1",
		Variants: []Variant{
			{ID: "v1", Options: VariantOptions{{Name: "Size", Value: "S"}, {Name: "Color", Value: "Black"}}},
			{ID: "v2", Options: VariantOptions{{Name: "Size", Value: "M"}, {Name: "Color", Value: "Black"}}},
			{ID: "v3", Options: VariantOptions{{Name: "Size", Value: "S"}}},
		},
	}

	got := mapProduct(&p, "bhd")
	if len(got.Options) != 2 {
		t.Fatalf("got %d options, want 2", len(got.Options))
	}
	if got.Options[0].Name != "Size" || got.Options[1].Name != "Color" {
		t.Errorf("option order = %s, %s; want Size, Color", got.Options[0].Name, got.Options[1].Name)
	}
	sizes := got.Options[0].Values
	if len(sizes) != 2 || sizes[0] != "S" || sizes[1] != "M" {
		t.Errorf("size values = %v, want [S M]", sizes)
	}
	colors := got.Options[1].Values
	if len(colors) != 1 || colors[0] != "Black" {
		t.Errorf("color values = %v, want [Black]", colors)
	}
}

func TestMapProductPriceRange(t *testing.T) {
	p := Product{
		Variants: []Variant{
			{ID: "v1", Prices: []Price{{Amount: 30, CurrencyCode: "bhd"}}},
			{ID: "v2", Prices: []Price{{Amount: 12.5, CurrencyCode: "bhd"}}},
			{ID: "v3", Prices: []Price{{Amount: 45, CurrencyCode: "bhd"}}},
		},
	}

	got := mapProduct(&p, "bhd")
	if got.PriceRange.MinVariantPrice.Amount != "12.5" {
		t.Errorf("min = %q, want 12.5", got.PriceRange.MinVariantPrice.Amount)
	}
	if got.PriceRange.MaxVariantPrice.Amount != "45" {
		t.Errorf("max = %q, want 45", got.PriceRange.MaxVariantPrice.Amount)
	}
}

func TestMapProductNoVariants(t *testing.T) {
	got := mapProduct(&Product{ID: "prod_1"}, "bhd")
	if got.PriceRange.MinVariantPrice.Amount != "0" || got.PriceRange.MaxVariantPrice.Amount != "0" {
		t.Errorf("price range = %+v, want zero range", got.PriceRange)
	}
	if got.PriceRange.MinVariantPrice.CurrencyCode != "BHD" {
		t.Errorf("currency = %q, want BHD", got.PriceRange.MinVariantPrice.CurrencyCode)
	}
}

func TestMapProductImages(t *testing.T) {
	p := Product{
		Title:     "Classic Abaya",
		Thumbnail: "https://cdn.example.com/thumb.jpg",
		Images:    []Image{{URL: "https://cdn.example.com/1.jpg"}, {URL: "https://cdn.example.com/2.jpg"}},
	}
	got := mapProduct(&p, "bhd")
	if got.FeaturedImage.URL != "https://cdn.example.com/1.jpg" {
		t.Errorf("featured = %q, want first image", got.FeaturedImage.URL)
	}

	// Thumbnail is the fallback when there are no images.
	got = mapProduct(&Product{Title: "X", Thumbnail: "https://cdn.example.com/thumb.jpg"}, "bhd")
	if got.FeaturedImage.URL != "https://cdn.example.com/thumb.jpg" {
		t.Errorf("featured = %q, want thumbnail", got.FeaturedImage.URL)
	}
}

func TestMapCartTotals(t *testing.T) {
	tests := []struct {
		name         string
		cart         Cart
		wantTotal    string
		wantSubtotal string
		wantTax      string
	}{
		{
			name:         "current field names",
			cart:         Cart{ID: "c1", CurrencyCode: "bhd", Total: f(15), Subtotal: f(14), TaxTotal: f(1)},
			wantTotal:    "15",
			wantSubtotal: "14",
			wantTax:      "1",
		},
		{
			name:         "deprecated amount names",
			cart:         Cart{ID: "c1", CurrencyCode: "bhd", TotalAmount: f(20), SubtotalAmount: f(18), TaxAmount: f(2)},
			wantTotal:    "20",
			wantSubtotal: "18",
			wantTax:      "2",
		},
		{
			name:         "subtotal falls back to total",
			cart:         Cart{ID: "c1", CurrencyCode: "bhd", Total: f(9)},
			wantTotal:    "9",
			wantSubtotal: "9",
			wantTax:      "0",
		},
		{
			name:         "total wins over deprecated total_amount",
			cart:         Cart{ID: "c1", CurrencyCode: "bhd", Total: f(9), TotalAmount: f(99)},
			wantTotal:    "9",
			wantSubtotal: "9",
			wantTax:      "0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapCart(&tc.cart, "bhd")
			if got.Cost.TotalAmount.Amount != tc.wantTotal {
				t.Errorf("total = %q, want %q", got.Cost.TotalAmount.Amount, tc.wantTotal)
			}
			if got.Cost.SubtotalAmount.Amount != tc.wantSubtotal {
				t.Errorf("subtotal = %q, want %q", got.Cost.SubtotalAmount.Amount, tc.wantSubtotal)
			}
			if got.Cost.TotalTaxAmount.Amount != tc.wantTax {
				t.Errorf("tax = %q, want %q", got.Cost.TotalTaxAmount.Amount, tc.wantTax)
			}
			if got.Cost.TotalAmount.CurrencyCode != "BHD" {
				t.Errorf("currency = %q, want BHD", got.Cost.TotalAmount.CurrencyCode)
			}
		})
	}
}

func TestMapCartLineTotalFallbacks(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want string
	}{
		{name: "total", item: LineItem{ID: "l1", Quantity: 2, Total: f(10), Subtotal: f(9)}, want: "10"},
		{name: "subtotal", item: LineItem{ID: "l1", Quantity: 2, Subtotal: f(9)}, want: "9"},
		{name: "unit price times quantity", item: LineItem{ID: "l1", Quantity: 3, UnitPrice: f(4)}, want: "12"},
		{name: "nothing", item: LineItem{ID: "l1", Quantity: 3}, want: "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cart := Cart{ID: "c1", Items: []LineItem{tc.item}}
			got := mapCart(&cart, "bhd")
			if len(got.Lines) != 1 {
				t.Fatalf("got %d lines, want 1", len(got.Lines))
			}
			if got.Lines[0].Cost.TotalAmount.Amount != tc.want {
				t.Errorf("line total = %q, want %q", got.Lines[0].Cost.TotalAmount.Amount, tc.want)
			}
		})
	}
}

func TestMapCartDropsLinesWithoutID(t *testing.T) {
	cart := Cart{
		ID: "c1",
		Items: []LineItem{
			{ID: "l1", Quantity: 2},
			{ID: "", Quantity: 5}, // cannot be updated or removed, dropped
		},
	}

	got := mapCart(&cart, "bhd")
	if len(got.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(got.Lines))
	}
	if got.TotalQuantity != 2 {
		t.Errorf("totalQuantity = %d, want 2 (dropped line excluded)", got.TotalQuantity)
	}
}

func TestMapCartCheckoutURL(t *testing.T) {
	got := mapCart(&Cart{ID: "cart id/with?chars"}, "bhd")
	want := "/checkout?cart_id=cart+id%2Fwith%3Fchars"
	if got.CheckoutURL != want {
		t.Errorf("checkoutUrl = %q, want %q", got.CheckoutURL, want)
	}
}

func TestMapCartMerchandise(t *testing.T) {
	cart := Cart{
		ID:           "c1",
		CurrencyCode: "bhd",
		Items: []LineItem{{
			ID:       "l1",
			Quantity: 1,
			Total:    f(20),
			Variant: &Variant{
				ID:      "var_1",
				Title:   "M / Black",
				Options: VariantOptions{{Name: "Size", Value: "M"}},
				Product: &Product{
					ID:     "prod_1",
					Handle: "classic-abaya",
					Title:  "Classic Abaya",
					Images: []Image{{URL: "https://cdn.example.com/1.jpg"}},
				},
			},
		}},
	}

	got := mapCart(&cart, "bhd")
	m := got.Lines[0].Merchandise
	if m.ID != "var_1" || m.Title != "M / Black" {
		t.Errorf("merchandise = %+v", m)
	}
	if m.Product.Handle != "classic-abaya" || m.Product.Title != "Classic Abaya" {
		t.Errorf("product = %+v", m.Product)
	}
	if m.Product.FeaturedImage.URL != "https://cdn.example.com/1.jpg" {
		t.Errorf("image = %q", m.Product.FeaturedImage.URL)
	}
	if len(m.SelectedOptions) != 1 || m.SelectedOptions[0] != (model.SelectedOption{Name: "Size", Value: "M"}) {
		t.Errorf("selectedOptions = %+v", m.SelectedOptions)
	}
}

func TestMapCartLineImagePrefersThumbnail(t *testing.T) {
	// When the embedded product carries both, the thumbnail wins over the
	// gallery; the line-level thumbnail is only the last resort.
	cart := Cart{
		ID: "c1",
		Items: []LineItem{{
			ID:        "l1",
			Quantity:  1,
			Thumbnail: "https://cdn.example.com/line.jpg",
			Variant: &Variant{
				ID: "var_1",
				Product: &Product{
					ID:        "prod_1",
					Title:     "Classic Abaya",
					Thumbnail: "https://cdn.example.com/thumb.jpg",
					Images:    []Image{{URL: "https://cdn.example.com/first.jpg"}},
				},
			},
		}},
	}

	got := mapCart(&cart, "bhd")
	if url := got.Lines[0].Merchandise.Product.FeaturedImage.URL; url != "https://cdn.example.com/thumb.jpg" {
		t.Errorf("image = %q, want thumbnail", url)
	}
}

func TestMapCartMerchandiseFallsBackToLineFields(t *testing.T) {
	cart := Cart{
		ID: "c1",
		Items: []LineItem{{
			ID:           "l1",
			Title:        "M",
			ProductTitle: "Classic Abaya",
			Thumbnail:    "https://cdn.example.com/thumb.jpg",
			VariantID:    "var_9",
			Quantity:     1,
		}},
	}

	got := mapCart(&cart, "bhd")
	m := got.Lines[0].Merchandise
	if m.ID != "var_9" {
		t.Errorf("merchandise id = %q, want var_9", m.ID)
	}
	if m.Product.Title != "Classic Abaya" {
		t.Errorf("product title = %q", m.Product.Title)
	}
	if m.Product.FeaturedImage.URL != "https://cdn.example.com/thumb.jpg" {
		t.Errorf("image = %q", m.Product.FeaturedImage.URL)
	}
}

func TestMapCollectionAndCategory(t *testing.T) {
	col := mapCollection(&Collection{
		ID: "col_1", Handle: "abayas", Title: "Abayas",
		Metadata:  map[string]any{"description": "All abayas"},
		UpdatedAt: "2026-01-01T00:00:00Z",
	})
	if col.Path != "/search/abayas" {
		t.Errorf("path = %q", col.Path)
	}
	if col.Description != "All abayas" {
		t.Errorf("description = %q", col.Description)
	}

	cat := mapCategory(&Category{
		ID: "cat_1", Handle: "looks", Name: "Looks", Description: "Curated looks",
	})
	if cat.Title != "Looks" || cat.Path != "/search/looks" {
		t.Errorf("category mapped = %+v", cat)
	}
}
