package medusa

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"mero-gateway/internal/httpcache"
	"mero-gateway/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient builds a client against a fake backend with caching on and
// logging off.
func newTestClient(t *testing.T, backendURL string) *Client {
	t.Helper()
	return New(Config{
		BackendURL:     backendURL,
		PublishableKey: "pk_test",
		Cache:          httpcache.New(),
		Logger:         discardLogger(),
	})
}

const testRegionsJSON = `{"regions":[{"id":"reg_1","name":"Gulf Region","currency_code":"bhd"}]}`

// newFakeBackend starts a Store API stub. Handlers are registered on the
// returned mux with full paths (e.g. "GET /store/products").
func newFakeBackend(t *testing.T) (*http.ServeMux, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return mux, newTestClient(t, srv.URL)
}

// regionsOK registers the standard single-region response.
func regionsOK(mux *http.ServeMux) {
	mux.HandleFunc("GET /store/regions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testRegionsJSON))
	})
}

func TestQueryValues(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{
			name:   "strings and ints",
			params: map[string]any{"q": "abaya", "limit": 100},
			want:   "limit=100&q=abaya",
		},
		{
			name:   "empty string dropped",
			params: map[string]any{"q": "", "limit": 1},
			want:   "limit=1",
		},
		{
			name:   "zero int dropped",
			params: map[string]any{"limit": 0},
			want:   "",
		},
		{
			name:   "false bool kept",
			params: map[string]any{"include_descendants_tree": false},
			want:   "include_descendants_tree=false",
		},
		{
			name:   "slice expands",
			params: map[string]any{"category_id[]": []string{"cat_1", "cat_2"}},
			want:   "category_id%5B%5D=cat_1&category_id%5B%5D=cat_2",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := queryValues(tc.params).Encode()
			if got != tc.want {
				t.Errorf("queryValues() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGetSendsPublishableKey(t *testing.T) {
	mux, client := newFakeBackend(t)
	regionsOK(mux)

	var gotKey string
	mux.HandleFunc("GET /store/products", func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-publishable-api-key")
		w.Write([]byte(`{"products":[]}`))
	})

	if _, err := client.GetProducts(context.Background(), ""); err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if gotKey != "pk_test" {
		t.Errorf("publishable key header = %q, want pk_test", gotKey)
	}
}

func TestReadSoftFailOnBackendError(t *testing.T) {
	mux, client := newFakeBackend(t)
	regionsOK(mux)
	mux.HandleFunc("GET /store/products", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	products, err := client.GetProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("got %d products, want 0", len(products))
	}
}

func TestReadSoftFailOnUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	products, err := client.GetProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("got %d products, want 0", len(products))
	}
}

func TestReadSoftFailWhenNotConfigured(t *testing.T) {
	client := New(Config{Logger: discardLogger()})

	products, err := client.GetProducts(context.Background(), "")
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("got %d products, want 0", len(products))
	}
}

func TestReadPropagatesContextCancellation(t *testing.T) {
	mux, client := newFakeBackend(t)
	regionsOK(mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetProducts(ctx, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestReadCachesWithinWindow(t *testing.T) {
	mux, client := newFakeBackend(t)
	regionsOK(mux)

	calls := 0
	mux.HandleFunc("GET /store/products", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"products":[{"id":"prod_1","handle":"a"}]}`))
	})

	for range 3 {
		if _, err := client.GetProducts(context.Background(), ""); err != nil {
			t.Fatalf("GetProducts: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("backend calls = %d, want 1 (cache hit)", calls)
	}
}

func TestMutationWhenNotConfigured(t *testing.T) {
	client := New(Config{Logger: discardLogger()})

	_, err := client.CreateCart(context.Background())
	if !errors.Is(err, model.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 503 {
		t.Errorf("err = %v, want 503 APIError", err)
	}
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantStatus int
	}{
		{
			name:       "404 maps to not found",
			status:     404,
			body:       `{"type":"not_found","message":"Cart not found"}`,
			wantErr:    model.ErrNotFound,
			wantStatus: 404,
		},
		{
			name:       "400 maps to validation with backend message",
			status:     400,
			body:       `{"type":"invalid_data","message":"Variant out of stock"}`,
			wantErr:    model.ErrInvalidInput,
			wantStatus: 400,
		},
		{
			name:       "401 maps to unauthorized",
			status:     401,
			body:       `{}`,
			wantErr:    model.ErrUnauthorized,
			wantStatus: 401,
		},
		{
			name:       "429 maps to rate limited",
			status:     429,
			body:       ``,
			wantErr:    model.ErrRateLimited,
			wantStatus: 429,
		},
		{
			name:       "500 maps to upstream",
			status:     500,
			body:       `{"message":"boom"}`,
			wantErr:    model.ErrUpstream,
			wantStatus: 502,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := parseErrorResponse(tc.status, []byte(tc.body))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err %T is not *model.APIError", err)
			}
			if apiErr.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tc.wantStatus)
			}
		})
	}
}

func TestParseErrorResponseKeepsBackendMessage(t *testing.T) {
	err := parseErrorResponse(400, []byte(`{"message":"Variant out of stock"}`))
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err %T is not *model.APIError", err)
	}
	if apiErr.Message != "invalid request: Variant out of stock" {
		t.Errorf("message = %q", apiErr.Message)
	}
}
