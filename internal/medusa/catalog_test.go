package medusa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestGetProductByHandle(t *testing.T) {
	mux, client := newFakeBackend(t)
	regionsOK(mux)
	mux.HandleFunc("GET /store/products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("handle") == "classic-abaya" {
			w.Write([]byte(`{"products":[{"id":"prod_1","handle":"classic-abaya","title":"Classic Abaya"}]}`))
			return
		}
		w.Write([]byte(`{"products":[]}`))
	})

	p, err := client.GetProduct(context.Background(), "classic-abaya")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p == nil || p.ID != "prod_1" {
		t.Fatalf("product = %+v", p)
	}
}

func TestGetProductFallbackScanWhenFilterIgnored(t *testing.T) {
	mux, client := newFakeBackend(t)
	regionsOK(mux)
	mux.HandleFunc("GET /store/products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("handle") != "" {
			// Backend ignores the handle filter and returns its first page.
			w.Write([]byte(`{"products":[{"id":"prod_9","handle":"unrelated"}]}`))
			return
		}
		w.Write([]byte(`{"products":[
			{"id":"prod_9","handle":"unrelated"},
			{"id":"prod_1","handle":"classic-abaya","title":"Classic Abaya"}
		]}`))
	})

	p, err := client.GetProduct(context.Background(), "classic-abaya")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p == nil || p.ID != "prod_1" {
		t.Fatalf("product = %+v, want prod_1 via catalog scan", p)
	}
}

func TestGetProductMissing(t *testing.T) {
	mux, client := newFakeBackend(t)
	regionsOK(mux)
	mux.HandleFunc("GET /store/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[]}`))
	})

	p, err := client.GetProduct(context.Background(), "nope")
	if err != nil || p != nil {
		t.Fatalf("product=%v err=%v, want nil/nil", p, err)
	}
}

func TestProductRecommendations(t *testing.T) {
	mux, client := newFakeBackend(t)
	regionsOK(mux)
	mux.HandleFunc("GET /store/products", func(w http.ResponseWriter, r *http.Request) {
		products := make([]map[string]any, 0, 12)
		for i := range 12 {
			products = append(products, map[string]any{
				"id":     fmt.Sprintf("prod_%d", i),
				"handle": fmt.Sprintf("p-%d", i),
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"products": products})
	})

	recs, err := client.ProductRecommendations(context.Background(), "prod_2")
	if err != nil {
		t.Fatalf("ProductRecommendations: %v", err)
	}
	if len(recs) != recommendationLimit {
		t.Fatalf("got %d recommendations, want %d", len(recs), recommendationLimit)
	}
	for _, p := range recs {
		if p.ID == "prod_2" {
			t.Errorf("recommendations include the product itself")
		}
	}
}

// catalogBackend stubs collections, categories, and per-entry product
// image lookups.
func catalogBackend(t *testing.T) (*Client, *[]string) {
	t.Helper()
	mux, client := newFakeBackend(t)
	regionsOK(mux)

	var productQueries []string
	mux.HandleFunc("GET /store/collections", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("handle") == "looks" || r.URL.Query().Get("handle") == "eid" {
			w.Write([]byte(`{"collections":[]}`))
			return
		}
		w.Write([]byte(`{"collections":[
			{"id":"col_1","handle":"abayas","title":"Abayas Collection","updated_at":"2026-01-02T00:00:00Z"}
		]}`))
	})
	mux.HandleFunc("GET /store/product-categories", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("handle") == "eid" {
			w.Write([]byte(`{"product_categories":[]}`))
			return
		}
		w.Write([]byte(`{"product_categories":[
			{"id":"cat_1","handle":"abayas","name":"Abayas Category"},
			{"id":"cat_2","handle":"looks","name":"Looks","description":"Curated looks"}
		]}`))
	})
	mux.HandleFunc("GET /store/products", func(w http.ResponseWriter, r *http.Request) {
		productQueries = append(productQueries, r.URL.RawQuery)
		if r.URL.Query().Get("collection_id[]") == "col_1" {
			w.Write([]byte(`{"products":[{"id":"prod_1","thumbnail":"https://cdn.example.com/a.jpg"}]}`))
			return
		}
		w.Write([]byte(`{"products":[]}`))
	})

	return client, &productQueries
}

func TestGetCollectionsMergesWithCollectionPrecedence(t *testing.T) {
	client, _ := catalogBackend(t)

	collections, err := client.GetCollections(context.Background())
	if err != nil {
		t.Fatalf("GetCollections: %v", err)
	}
	if len(collections) != 2 {
		t.Fatalf("got %d collections, want 2 (abayas deduplicated)", len(collections))
	}
	if collections[0].Handle != "abayas" || collections[0].Title != "Abayas Collection" {
		t.Errorf("first entry = %+v, want the collection, not the category", collections[0])
	}
	if collections[1].Handle != "looks" {
		t.Errorf("second entry = %+v, want the looks category", collections[1])
	}

	// Featured images: abayas has a product, looks has none.
	if collections[0].Image == nil || collections[0].Image.URL != "https://cdn.example.com/a.jpg" {
		t.Errorf("abayas image = %+v", collections[0].Image)
	}
	if collections[1].Image != nil {
		t.Errorf("looks image = %+v, want none", collections[1].Image)
	}
}

func TestGetCollectionByHandle(t *testing.T) {
	client, _ := catalogBackend(t)

	col, err := client.GetCollection(context.Background(), "looks")
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if col == nil || col.Title != "Looks" {
		t.Fatalf("collection = %+v, want the looks category", col)
	}

	col, err = client.GetCollection(context.Background(), "eid")
	if err != nil || col != nil {
		t.Fatalf("unknown handle: col=%v err=%v, want nil/nil", col, err)
	}
}

func TestGetCollectionProductsFilters(t *testing.T) {
	client, queries := catalogBackend(t)

	if _, err := client.GetCollectionProducts(context.Background(), "looks", ""); err != nil {
		t.Fatalf("GetCollectionProducts: %v", err)
	}

	last := (*queries)[len(*queries)-1]
	if want := "category_id%5B%5D=cat_2"; !strings.Contains(last, want) {
		t.Errorf("product query %q, want it to carry %s", last, want)
	}

	// Unknown handle falls back to the unfiltered catalog.
	if _, err := client.GetCollectionProducts(context.Background(), "eid", ""); err != nil {
		t.Fatalf("GetCollectionProducts: %v", err)
	}
	last = (*queries)[len(*queries)-1]
	if strings.Contains(last, "category_id") || strings.Contains(last, "collection_id") {
		t.Errorf("unknown handle query %q, want no filter", last)
	}
}

func TestMenu(t *testing.T) {
	client, _ := catalogBackend(t)

	menu, err := client.Menu(context.Background(), "next-js-frontend-header-menu")
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if len(menu) != 3 {
		t.Fatalf("got %d items, want 3", len(menu))
	}
	if menu[0].Title != "All" || menu[0].Path != "/search" {
		t.Errorf("first item = %+v, want All", menu[0])
	}

	footer, err := client.Menu(context.Background(), "next-js-frontend-footer-menu")
	if err != nil {
		t.Fatalf("Menu footer: %v", err)
	}
	if len(footer) != 5 {
		t.Fatalf("got %d footer items, want 5", len(footer))
	}
	if footer[3].Title != "About" || footer[4].Title != "Return Policy" {
		t.Errorf("footer tail = %+v, %+v", footer[3], footer[4])
	}
}

func TestStaticPages(t *testing.T) {
	client := New(Config{Logger: discardLogger()})

	pages, err := client.Pages(context.Background())
	if err != nil || len(pages) != 2 {
		t.Fatalf("pages=%d err=%v, want 2 pages", len(pages), err)
	}

	page, err := client.Page(context.Background(), "about")
	if err != nil || page == nil || page.Title != "About Mero Closet" {
		t.Fatalf("page=%+v err=%v", page, err)
	}

	page, err = client.Page(context.Background(), "nope")
	if err != nil || page != nil {
		t.Fatalf("unknown page: page=%v err=%v, want nil/nil", page, err)
	}
}
