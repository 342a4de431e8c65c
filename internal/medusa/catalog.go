package medusa

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"mero-gateway/internal/httpcache"
	"mero-gateway/internal/model"
)

// productFields asks for everything the product mappers consume.
const productFields = "id,handle,title,description,metadata,updated_at," +
	"*images,*variants,*variants.prices,*options"

const (
	// productPageSize caps catalog queries; the store is small enough that
	// one page is the whole catalog.
	productPageSize = 100
	// collectionPageSize caps collection and category listings.
	collectionPageSize = 20
	// recommendationLimit caps the curated recommendation list.
	recommendationLimit = 8
	// collectionImageConcurrency bounds the featured-image fan-out.
	collectionImageConcurrency = 4
)

// collectionsCacheTTL: navigation changes rarely, cache for an hour.
const collectionsCacheTTL = regionCacheTTL

// GetProducts returns the catalog, optionally filtered by a search query.
func (c *Client) GetProducts(ctx context.Context, query string) ([]model.Product, error) {
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var resp productsResponse
	err = c.get(ctx, "/products", map[string]any{
		"limit":  productPageSize,
		"q":      query,
		"fields": productFields,
	}, cacheHints{ttl: catalogCacheTTL, tags: []string{httpcache.TagProducts}}, &resp)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, mapProduct(&resp.Products[i], region.CurrencyCode))
	}
	return products, nil
}

// GetProduct looks a product up by handle. Backends that ignore the handle
// filter return an unrelated first page, so the result is checked and a
// full-catalog scan is the fallback. Missing product is (nil, nil).
func (c *Client) GetProduct(ctx context.Context, handle string) (*model.Product, error) {
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var resp productsResponse
	err = c.get(ctx, "/products", map[string]any{
		"limit":  1,
		"handle": handle,
		"fields": productFields,
	}, cacheHints{ttl: catalogCacheTTL, tags: []string{httpcache.TagProducts}}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Products) > 0 && resp.Products[0].Handle == handle {
		p := mapProduct(&resp.Products[0], region.CurrencyCode)
		return &p, nil
	}

	all, err := c.GetProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Handle == handle {
			return &all[i], nil
		}
	}
	return nil, nil
}

// ProductRecommendations returns a curated list: the catalog minus the
// given product, capped. The backend has no recommendation engine.
func (c *Client) ProductRecommendations(ctx context.Context, productID string) ([]model.Product, error) {
	all, err := c.GetProducts(ctx, "")
	if err != nil {
		return nil, err
	}

	out := make([]model.Product, 0, recommendationLimit)
	for i := range all {
		if all[i].ID == productID {
			continue
		}
		out = append(out, all[i])
		if len(out) == recommendationLimit {
			break
		}
	}
	return out, nil
}

// collectionRef is a merged navigation entry plus the product filter needed
// to find its featured image.
type collectionRef struct {
	collection  model.Collection
	filterParam string // "collection_id[]" or "category_id[]"
	sourceID    string
}

// collectionRefs merges Medusa collections with root product categories
// into one navigation list, de-duplicated by handle. Collections win a
// handle collision; category order follows the backend after collections.
func (c *Client) collectionRefs(ctx context.Context) ([]collectionRef, error) {
	var cols collectionsResponse
	err := c.get(ctx, "/collections", map[string]any{"limit": collectionPageSize},
		cacheHints{ttl: collectionsCacheTTL, tags: []string{httpcache.TagCollections}}, &cols)
	if err != nil {
		return nil, err
	}

	var cats categoriesResponse
	err = c.get(ctx, "/product-categories", map[string]any{
		"parent_category_id":       "null",
		"include_descendants_tree": false,
		"limit":                    collectionPageSize,
	}, cacheHints{ttl: collectionsCacheTTL, tags: []string{httpcache.TagCollections}}, &cats)
	if err != nil {
		return nil, err
	}

	refs := make([]collectionRef, 0, len(cols.Collections)+len(cats.ProductCategories))
	seen := make(map[string]bool)
	for i := range cols.Collections {
		col := &cols.Collections[i]
		if col.Handle == "" || seen[col.Handle] {
			continue
		}
		seen[col.Handle] = true
		refs = append(refs, collectionRef{
			collection:  mapCollection(col),
			filterParam: "collection_id[]",
			sourceID:    col.ID,
		})
	}
	for i := range cats.ProductCategories {
		cat := &cats.ProductCategories[i]
		if cat.Handle == "" || seen[cat.Handle] {
			continue
		}
		seen[cat.Handle] = true
		refs = append(refs, collectionRef{
			collection:  mapCategory(cat),
			filterParam: "category_id[]",
			sourceID:    cat.ID,
		})
	}
	return refs, nil
}

// GetCollections returns the merged navigation list, each entry decorated
// with a featured image taken from its first product. Image lookups fan out
// concurrently with a bounded errgroup; an entry with no products simply
// has no image.
func (c *Client) GetCollections(ctx context.Context) ([]model.Collection, error) {
	refs, err := c.collectionRefs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Collection, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(collectionImageConcurrency)
	for i, ref := range refs {
		g.Go(func() error {
			img, err := c.featuredImage(gctx, ref)
			if err != nil {
				return err
			}
			col := ref.collection
			col.Image = img
			out[i] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// featuredImage fetches one product for the entry and uses its first image.
func (c *Client) featuredImage(ctx context.Context, ref collectionRef) (*model.Image, error) {
	var resp productsResponse
	err := c.get(ctx, "/products", map[string]any{
		"limit":         1,
		ref.filterParam: []string{ref.sourceID},
		"fields":        "*images",
	}, cacheHints{ttl: collectionsCacheTTL, tags: []string{httpcache.TagProducts, httpcache.TagCollections}}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Products) == 0 {
		return nil, nil
	}

	p := &resp.Products[0]
	url := p.Thumbnail
	if len(p.Images) > 0 && p.Images[0].URL != "" {
		url = p.Images[0].URL
	}
	if url == "" {
		return nil, nil
	}
	return &model.Image{URL: url, AltText: ref.collection.Title, Width: 800, Height: 600}, nil
}

// GetCollection looks a single navigation entry up by handle, collections
// before categories. Missing entry is (nil, nil).
func (c *Client) GetCollection(ctx context.Context, handle string) (*model.Collection, error) {
	ref, err := c.resolveCollection(ctx, handle)
	if err != nil || ref == nil {
		return nil, err
	}
	col := ref.collection
	return &col, nil
}

// resolveCollection resolves a handle to its backing collection or
// category, collection winning. Nil when neither side knows the handle.
func (c *Client) resolveCollection(ctx context.Context, handle string) (*collectionRef, error) {
	var cols collectionsResponse
	err := c.get(ctx, "/collections", map[string]any{"handle": handle},
		cacheHints{ttl: collectionsCacheTTL, tags: []string{httpcache.TagCollections}}, &cols)
	if err != nil {
		return nil, err
	}
	for i := range cols.Collections {
		if cols.Collections[i].Handle == handle {
			return &collectionRef{
				collection:  mapCollection(&cols.Collections[i]),
				filterParam: "collection_id[]",
				sourceID:    cols.Collections[i].ID,
			}, nil
		}
	}

	var cats categoriesResponse
	err = c.get(ctx, "/product-categories", map[string]any{"handle": handle},
		cacheHints{ttl: collectionsCacheTTL, tags: []string{httpcache.TagCollections}}, &cats)
	if err != nil {
		return nil, err
	}
	for i := range cats.ProductCategories {
		if cats.ProductCategories[i].Handle == handle {
			return &collectionRef{
				collection:  mapCategory(&cats.ProductCategories[i]),
				filterParam: "category_id[]",
				sourceID:    cats.ProductCategories[i].ID,
			}, nil
		}
	}
	return nil, nil
}

// GetCollectionProducts returns the products behind a navigation entry.
// An unknown handle falls back to the unfiltered catalog so search pages
// still render something.
func (c *Client) GetCollectionProducts(ctx context.Context, handle, query string) ([]model.Product, error) {
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	params := map[string]any{
		"limit":  productPageSize,
		"q":      query,
		"fields": productFields,
	}
	ref, err := c.resolveCollection(ctx, handle)
	if err != nil {
		return nil, err
	}
	if ref != nil {
		params[ref.filterParam] = []string{ref.sourceID}
	}

	var resp productsResponse
	err = c.get(ctx, "/products", params,
		cacheHints{ttl: catalogCacheTTL, tags: []string{httpcache.TagProducts}}, &resp)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, mapProduct(&resp.Products[i], region.CurrencyCode))
	}
	return products, nil
}

// Menu derives a navigation menu from the collection list: "All" first,
// then one entry per collection. Footer menus additionally link the static
// pages.
func (c *Client) Menu(ctx context.Context, handle string) ([]model.Menu, error) {
	collections, err := c.GetCollections(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.Menu, 0, len(collections)+3)
	items = append(items, model.Menu{Title: "All", Path: "/search"})
	for _, col := range collections {
		items = append(items, model.Menu{Title: col.Title, Path: col.Path})
	}

	if strings.Contains(handle, "footer") {
		items = append(items,
			model.Menu{Title: "About", Path: "/about"},
			model.Menu{Title: "Return Policy", Path: "/returns"},
		)
	}
	return items, nil
}
