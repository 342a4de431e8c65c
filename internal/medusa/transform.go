package medusa

import (
	"net/url"
	"strings"

	"mero-gateway/internal/model"
)

// Transforms from Medusa wire shapes to the canonical storefront model.
// All functions here are pure: no I/O, no logging, deterministic output.

// fallbackCurrency is used when neither the price entry nor the resolved
// region carries a currency code.
const fallbackCurrency = "bhd"

// pickVariantPrice selects the price for a variant in the given currency.
//
// Price entries come from variant.prices or, when the backend expands
// price_set instead, from price_set.prices. The first entry matching the
// currency (case-insensitive) wins; without a match the calculated price
// is used as the amount and the requested currency as the code. A variant
// with no price data yields a zero amount rather than an error: the
// storefront renders "free" instead of dropping the product.
func pickVariantPrice(v *Variant, currencyCode string) model.Money {
	prices := v.Prices
	if len(prices) == 0 && v.PriceSet != nil {
		prices = v.PriceSet.Prices
	}

	var match *Price
	for i := range prices {
		if strings.EqualFold(prices[i].CurrencyCode, currencyCode) {
			match = &prices[i]
			break
		}
	}

	var amount float64
	code := currencyCode
	switch {
	case match != nil:
		amount = match.Amount
		if match.CurrencyCode != "" {
			code = match.CurrencyCode
		}
	case v.CalculatedPrice != nil:
		amount = v.CalculatedPrice.Amount
	}
	if code == "" {
		code = fallbackCurrency
	}

	return model.NewMoney(amount, strings.ToUpper(code))
}

// mapSelectedOptions converts normalized variant options to the canonical
// name/value pairs.
func mapSelectedOptions(opts VariantOptions) []model.SelectedOption {
	out := make([]model.SelectedOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, model.SelectedOption{Name: o.Name, Value: o.Value})
	}
	return out
}

// mapVariant converts a Medusa variant to the canonical shape.
// AvailableForSale is always true: the Store API only returns purchasable
// variants for the sales channel behind the publishable key.
func mapVariant(v *Variant, currencyCode string) model.ProductVariant {
	return model.ProductVariant{
		ID:               v.ID,
		Title:            v.Title,
		AvailableForSale: true,
		SelectedOptions:  mapSelectedOptions(v.Options),
		Price:            pickVariantPrice(v, currencyCode),
	}
}

// mapProduct converts a Medusa product to the canonical shape.
//
// Options come from the explicit product.options definitions when present;
// otherwise they are derived by walking the variants and collecting each
// option name and its values in first-seen order, deduplicated.
func mapProduct(p *Product, currencyCode string) model.Product {
	variants := make([]model.ProductVariant, 0, len(p.Variants))
	for i := range p.Variants {
		variants = append(variants, mapVariant(&p.Variants[i], currencyCode))
	}

	options := mapProductOptions(p, variants)

	images := make([]model.Image, 0, len(p.Images))
	for _, img := range p.Images {
		if img.URL == "" {
			continue
		}
		images = append(images, model.Image{URL: img.URL, AltText: p.Title})
	}
	featured := model.Image{URL: p.Thumbnail, AltText: p.Title}
	if len(images) > 0 {
		featured = images[0]
	}

	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t.Value != "" {
			tags = append(tags, t.Value)
		}
	}

	return model.Product{
		ID:               p.ID,
		Handle:           p.Handle,
		AvailableForSale: true,
		Title:            p.Title,
		Description:      p.Description,
		DescriptionHTML:  p.Description,
		Options:          options,
		PriceRange:       priceRangeOf(variants, currencyCode),
		Variants:         variants,
		FeaturedImage:    featured,
		Images:           images,
		SEO:              model.SEO{Title: p.Title, Description: p.Description},
		Tags:             tags,
		UpdatedAt:        p.UpdatedAt,
		Metadata:         p.Metadata,
	}
}

// mapProductOptions prefers explicit option definitions and falls back to
// deriving the axes from variant selections.
func mapProductOptions(p *Product, variants []model.ProductVariant) []model.ProductOption {
	if len(p.Options) > 0 {
		out := make([]model.ProductOption, 0, len(p.Options))
		for _, o := range p.Options {
			id := o.ID
			if id == "" {
				id = o.Title
			}
			values := make([]string, 0, len(o.Values))
			seen := make(map[string]bool, len(o.Values))
			for _, v := range o.Values {
				s := string(v)
				if s == "" || seen[s] {
					continue
				}
				seen[s] = true
				values = append(values, s)
			}
			out = append(out, model.ProductOption{ID: id, Name: o.Title, Values: values})
		}
		return out
	}

	// Derive from variants: names and values keep first-seen order.
	var names []string
	valuesByName := make(map[string][]string)
	seenValue := make(map[string]map[string]bool)
	for _, v := range variants {
		for _, sel := range v.SelectedOptions {
			if sel.Name == "" || sel.Value == "" {
				continue
			}
			if _, ok := valuesByName[sel.Name]; !ok {
				names = append(names, sel.Name)
				valuesByName[sel.Name] = nil
				seenValue[sel.Name] = make(map[string]bool)
			}
			if !seenValue[sel.Name][sel.Value] {
				seenValue[sel.Name][sel.Value] = true
				valuesByName[sel.Name] = append(valuesByName[sel.Name], sel.Value)
			}
		}
	}

	out := make([]model.ProductOption, 0, len(names))
	for _, name := range names {
		out = append(out, model.ProductOption{ID: name, Name: name, Values: valuesByName[name]})
	}
	return out
}

// priceRangeOf computes min/max over the variants' mapped prices.
func priceRangeOf(variants []model.ProductVariant, currencyCode string) model.PriceRange {
	code := strings.ToUpper(currencyCode)
	if code == "" {
		code = strings.ToUpper(fallbackCurrency)
	}
	if len(variants) == 0 {
		zero := model.ZeroMoney(code)
		return model.PriceRange{MinVariantPrice: zero, MaxVariantPrice: zero}
	}

	min, max := variants[0].Price, variants[0].Price
	for _, v := range variants[1:] {
		if model.AmountValue(v.Price.Amount) < model.AmountValue(min.Amount) {
			min = v.Price
		}
		if model.AmountValue(v.Price.Amount) > model.AmountValue(max.Amount) {
			max = v.Price
		}
	}
	return model.PriceRange{MinVariantPrice: min, MaxVariantPrice: max}
}

// checkoutPath builds the storefront checkout URL for a cart.
func checkoutPath(cartID string) string {
	return "/checkout?cart_id=" + url.QueryEscape(cartID)
}

// mapCart converts a Medusa cart to the canonical shape.
//
// Monetary fields use fallback chains because the backend's expansion
// settings vary: cart total falls back to the deprecated total_amount;
// subtotal falls back through subtotal_amount to total; tax falls back to
// tax_amount and finally zero. Line totals fall back through subtotal to
// unit_price x quantity. Lines with a missing id are dropped: they cannot
// be updated or removed, so exposing them would strand the UI.
func mapCart(cart *Cart, currencyCode string) model.Cart {
	code := cart.CurrencyCode
	if code == "" {
		code = currencyCode
	}
	if code == "" {
		code = fallbackCurrency
	}
	code = strings.ToUpper(code)

	lines := make([]model.CartLine, 0, len(cart.Items))
	totalQuantity := 0
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ID == "" {
			continue
		}
		totalQuantity += item.Quantity
		lines = append(lines, mapCartLine(item, code))
	}

	total := firstAmount(cart.Total, cart.TotalAmount)
	subtotal := total
	if v := firstAmount(cart.Subtotal, cart.SubtotalAmount); cart.Subtotal != nil || cart.SubtotalAmount != nil {
		subtotal = v
	}
	tax := firstAmount(cart.TaxTotal, cart.TaxAmount)

	return model.Cart{
		ID:          cart.ID,
		CheckoutURL: checkoutPath(cart.ID),
		Cost: model.CartCost{
			SubtotalAmount: model.NewMoney(subtotal, code),
			TotalAmount:    model.NewMoney(total, code),
			TotalTaxAmount: model.NewMoney(tax, code),
		},
		Lines:         lines,
		TotalQuantity: totalQuantity,
	}
}

func mapCartLine(item *LineItem, currencyCode string) model.CartLine {
	lineCurrency := item.CurrencyCode
	if lineCurrency == "" {
		lineCurrency = currencyCode
	}
	lineCurrency = strings.ToUpper(lineCurrency)

	lineTotal := firstAmount(item.Total, item.Subtotal)
	if item.Total == nil && item.Subtotal == nil && item.UnitPrice != nil {
		lineTotal = *item.UnitPrice * float64(item.Quantity)
	}

	variant := item.Variant
	if variant == nil {
		variant = &Variant{ID: item.VariantID, Title: item.Title}
	}

	product := variant.Product
	if product == nil {
		product = item.Product
	}

	cartProduct := model.CartProduct{
		Title:         item.ProductTitle,
		FeaturedImage: model.Image{URL: item.Thumbnail},
	}
	if cartProduct.Title == "" {
		cartProduct.Title = item.Title
	}
	if product != nil {
		cartProduct.ID = product.ID
		cartProduct.Handle = product.Handle
		if product.Title != "" {
			cartProduct.Title = product.Title
		}
		if product.Thumbnail != "" {
			cartProduct.FeaturedImage = model.Image{URL: product.Thumbnail, AltText: cartProduct.Title}
		} else if len(product.Images) > 0 && product.Images[0].URL != "" {
			cartProduct.FeaturedImage = model.Image{URL: product.Images[0].URL, AltText: cartProduct.Title}
		}
	}

	merchandiseID := variant.ID
	if merchandiseID == "" {
		merchandiseID = item.VariantID
	}
	merchandiseTitle := variant.Title
	if merchandiseTitle == "" {
		merchandiseTitle = item.Title
	}

	return model.CartLine{
		ID:       item.ID,
		Quantity: item.Quantity,
		Cost: model.CartLineCost{
			TotalAmount: model.NewMoney(lineTotal, lineCurrency),
		},
		Merchandise: model.Merchandise{
			ID:              merchandiseID,
			Title:           merchandiseTitle,
			SelectedOptions: mapSelectedOptions(variant.Options),
			Product:         cartProduct,
		},
	}
}

// firstAmount returns the first non-nil amount, or zero.
func firstAmount(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}

// mapCollection converts a Medusa collection to the canonical shape.
func mapCollection(c *Collection) model.Collection {
	description, _ := c.Metadata["description"].(string)
	return model.Collection{
		Handle:      c.Handle,
		Title:       c.Title,
		Description: description,
		SEO:         model.SEO{Title: c.Title, Description: description},
		Path:        "/search/" + c.Handle,
		UpdatedAt:   c.UpdatedAt,
	}
}

// mapCategory converts a Medusa product category to the canonical
// collection shape; categories and collections are one navigation concept
// for the storefront.
func mapCategory(c *Category) model.Collection {
	return model.Collection{
		Handle:      c.Handle,
		Title:       c.Name,
		Description: c.Description,
		SEO:         model.SEO{Title: c.Name, Description: c.Description},
		Path:        "/search/" + c.Handle,
		UpdatedAt:   c.UpdatedAt,
	}
}
