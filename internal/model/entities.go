// Package model defines the canonical storefront entities served to UI and
// agent clients, independent of the Medusa backend's wire shapes.
package model

// === Catalog Types ===

// Image is a displayable product or collection image.
// Width/Height are rendering hints; the backend does not report dimensions.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// SEO carries page metadata derived from the entity.
type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SelectedOption is one concrete option choice on a variant (e.g. Size=M).
// The ordered set of selected options uniquely identifies a variant among
// its product's siblings.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductOption describes a configurable axis of a product.
// Values preserve first-seen order and contain no duplicates.
type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ProductVariant is a purchasable configuration of a product.
type ProductVariant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Price            Money            `json:"price"`
}

// PriceRange spans the min/max variant prices of a product.
type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

// Product is the canonical catalog entity.
// Metadata is passed through untyped; the UI uses it for filtering.
type Product struct {
	ID               string           `json:"id"`
	Handle           string           `json:"handle"`
	AvailableForSale bool             `json:"availableForSale"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	DescriptionHTML  string           `json:"descriptionHtml"`
	Options          []ProductOption  `json:"options"`
	PriceRange       PriceRange       `json:"priceRange"`
	Variants         []ProductVariant `json:"variants"`
	FeaturedImage    Image            `json:"featuredImage"`
	Images           []Image          `json:"images"`
	SEO              SEO              `json:"seo"`
	Tags             []string         `json:"tags"`
	UpdatedAt        string           `json:"updatedAt"`
	Metadata         map[string]any   `json:"metadata,omitempty"`
}

// Collection groups products for navigation. It is backed by either a Medusa
// collection or a category node; handles are unique after merging.
type Collection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SEO         SEO    `json:"seo"`
	Path        string `json:"path"`
	UpdatedAt   string `json:"updatedAt"`
	Image       *Image `json:"image,omitempty"`
}

// Menu is a single navigation entry derived from collections.
type Menu struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Page is a static content page served by the gateway itself.
type Page struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Body        string `json:"body"`
	BodySummary string `json:"bodySummary"`
	SEO         SEO    `json:"seo"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// === Cart Types ===

// CartProduct is the parent product summary embedded in a cart line.
type CartProduct struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage Image  `json:"featuredImage"`
}

// Merchandise is the variant snapshot a cart line was created from.
type Merchandise struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	Product         CartProduct      `json:"product"`
}

// CartLineCost holds the line-level price breakdown.
type CartLineCost struct {
	TotalAmount Money `json:"totalAmount"`
}

// CartLine is one entry in the cart.
type CartLine struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Cost        CartLineCost `json:"cost"`
	Merchandise Merchandise  `json:"merchandise"`
}

// CartCost holds the cart-level price breakdown.
type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
	TotalTaxAmount Money `json:"totalTaxAmount"`
}

// Cart is the canonical cart entity. A cart is owned by exactly one browser
// session via the cartId cookie; it carries no customer identity until
// checkout.
type Cart struct {
	ID             string          `json:"id"`
	CheckoutURL    string          `json:"checkoutUrl"`
	Cost           CartCost        `json:"cost"`
	Lines          []CartLine      `json:"lines"`
	TotalQuantity  int             `json:"totalQuantity"`
	PaymentSession *PaymentSession `json:"paymentSession,omitempty"`
}

// === Region & Payment Types ===

// Region identifies the backend pricing/payment context for the store.
type Region struct {
	ID           string `json:"id"`
	CurrencyCode string `json:"currencyCode"`
}

// PaymentSession is the provider-specific payment state attached to a cart
// once checkout bootstrap has run.
type PaymentSession struct {
	ProviderID   string `json:"providerId"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// PaymentOutcome classifies the result of payment-session bootstrap so the
// UI can tell "feature not available" apart from "temporarily broken".
type PaymentOutcome string

const (
	// PaymentOutcomeReady means a session exists and a client secret was obtained.
	PaymentOutcomeReady PaymentOutcome = "ready"
	// PaymentOutcomeNoProvider means no usable payment provider is configured
	// for the region. Expected absence, not an error.
	PaymentOutcomeNoProvider PaymentOutcome = "no_provider"
	// PaymentOutcomeDegraded means bootstrap hit a transient failure; the cart
	// is still usable and the client may retry.
	PaymentOutcomeDegraded PaymentOutcome = "degraded"
)

// PaymentBootstrap is the typed result of InitializePaymentSession.
// Cart is always the best-effort current cart, regardless of outcome.
type PaymentBootstrap struct {
	Outcome PaymentOutcome `json:"outcome"`
	Cart    *Cart          `json:"cart,omitempty"`
}

// === Cart Mutation Inputs ===

// CartLineInput adds a variant to the cart.
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdate changes the quantity of an existing line.
type CartLineUpdate struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}
