// storectl is a CLI tool for exercising the storefront gateway.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	storectl search -gateway URL [-q QUERY]
//	storectl product -gateway URL -handle HANDLE
//	storectl collections -gateway URL
//	storectl create -gateway URL
//	storectl add -gateway URL -cart ID -variant ID [-qty N]
//	storectl get -gateway URL -cart ID
//	storectl update -gateway URL -cart ID -line ID -qty N
//	storectl remove -gateway URL -cart ID -line ID
//	storectl pay -gateway URL -cart ID
//	storectl revalidate -gateway URL -tags products,collections
//
// Examples:
//
//	CART=$(storectl create -gateway http://localhost:8080 -q)
//	storectl add -gateway http://localhost:8080 -cart "$CART" -variant var_123 -qty 2
//	storectl pay -gateway http://localhost:8080 -cart "$CART"
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Global flags (apply to all commands)
var (
	gatewayURL string
	quiet      bool
)

// ANSI color codes
var (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorBold  = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		colorReset, colorRed, colorGreen, colorCyan, colorBold = "", "", "", "", ""
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "search":
		runSearch(args)
	case "product":
		runProduct(args)
	case "collections":
		runCollections(args)
	case "create":
		runCreate(args)
	case "add":
		runAdd(args)
	case "get":
		runGet(args)
	case "update":
		runUpdate(args)
	case "remove":
		runRemove(args)
	case "pay":
		runPay(args)
	case "revalidate":
		runRevalidate(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `storectl - storefront gateway test tool

Usage:
  storectl <command> [options]

Commands:
  search       Search the product catalog
  product      Get a single product by handle
  collections  List collections and categories
  create       Create a new cart
  add          Add a variant line to a cart
  get          Get current cart state
  update       Change the quantity of a cart line
  remove       Remove a cart line
  pay          Bootstrap a payment session
  revalidate   Purge gateway caches by tag

Examples:
  # Create a cart and capture its ID
  CART=$(storectl create -gateway http://localhost:8080 -q)

  # Add two of a variant
  storectl add -gateway http://localhost:8080 -cart "$CART" -variant var_123 -qty 2

  # Bootstrap payment
  storectl pay -gateway http://localhost:8080 -cart "$CART"

Run 'storectl <command> -h' for command-specific options.
`)
}

// newFlagSet creates a flag set with the global flags registered.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&gatewayURL, "gateway", "http://localhost:8080", "gateway base URL")
	fs.BoolVar(&quiet, "q", false, "print only the primary ID from the response")
	return fs
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, colorRed+"error: "+format+colorReset+"\n", args...)
	os.Exit(1)
}

// request performs an HTTP round trip against the gateway. A non-empty
// cartID rides along as the cartId cookie, matching what a browser sends.
func request(method, path, cartID string, body interface{}) (int, []byte) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fatal("encoding request: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimSuffix(gatewayURL, "/")+path, reqBody)
	if err != nil {
		fatal("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cartID != "" {
		req.AddCookie(&http.Cookie{Name: "cartId", Value: cartID})
	}

	resp, err := client.Do(req)
	if err != nil {
		fatal("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		fatal("reading response: %v", err)
	}
	return resp.StatusCode, data
}

// printResponse pretty-prints a JSON response, or just the given ID in
// quiet mode.
func printResponse(status int, body []byte, id string) {
	if quiet {
		if id != "" {
			fmt.Println(id)
		}
		return
	}

	color := colorGreen
	if status >= 400 {
		color = colorRed
	}
	fmt.Printf("%s%d%s\n", color+colorBold, status, colorReset)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

// idFromCart extracts the cart id from a cart JSON payload.
func idFromCart(body []byte) string {
	var cart struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &cart); err != nil {
		return ""
	}
	return cart.ID
}

func runSearch(args []string) {
	fs := newFlagSet("search")
	query := fs.String("q-text", "", "full-text search query")
	fs.Parse(args)

	path := "/products"
	if *query != "" {
		path += "?q=" + url.QueryEscape(*query)
	}

	status, body := request("GET", path, "", nil)
	printResponse(status, body, "")
}

func runProduct(args []string) {
	fs := newFlagSet("product")
	handle := fs.String("handle", "", "product handle (required)")
	fs.Parse(args)

	if *handle == "" {
		fatal("-handle is required")
	}

	status, body := request("GET", "/products/"+url.PathEscape(*handle), "", nil)
	printResponse(status, body, "")
}

func runCollections(args []string) {
	fs := newFlagSet("collections")
	fs.Parse(args)

	status, body := request("GET", "/collections", "", nil)
	printResponse(status, body, "")
}

func runCreate(args []string) {
	fs := newFlagSet("create")
	fs.Parse(args)

	status, body := request("POST", "/cart", "", nil)
	printResponse(status, body, idFromCart(body))
}

func runAdd(args []string) {
	fs := newFlagSet("add")
	cartID := fs.String("cart", "", "cart ID (empty creates a new cart)")
	variant := fs.String("variant", "", "variant ID (required)")
	qty := fs.Int("qty", 1, "quantity")
	fs.Parse(args)

	if *variant == "" {
		fatal("-variant is required")
	}

	payload := map[string]interface{}{
		"lines": []map[string]interface{}{
			{"merchandiseId": *variant, "quantity": *qty},
		},
	}

	status, body := request("POST", "/cart/lines", *cartID, payload)
	printResponse(status, body, idFromCart(body))
}

func runGet(args []string) {
	fs := newFlagSet("get")
	cartID := fs.String("cart", "", "cart ID (required)")
	fs.Parse(args)

	if *cartID == "" {
		fatal("-cart is required")
	}

	status, body := request("GET", "/cart", *cartID, nil)
	printResponse(status, body, "")
}

func runUpdate(args []string) {
	fs := newFlagSet("update")
	cartID := fs.String("cart", "", "cart ID (required)")
	lineID := fs.String("line", "", "cart line ID (required)")
	qty := fs.Int("qty", 1, "new quantity")
	fs.Parse(args)

	if *cartID == "" || *lineID == "" {
		fatal("-cart and -line are required")
	}

	payload := map[string]interface{}{
		"lines": []map[string]interface{}{
			{"id": *lineID, "quantity": *qty},
		},
	}

	status, body := request("PATCH", "/cart/lines", *cartID, payload)
	printResponse(status, body, "")
}

func runRemove(args []string) {
	fs := newFlagSet("remove")
	cartID := fs.String("cart", "", "cart ID (required)")
	lineID := fs.String("line", "", "cart line ID (required)")
	fs.Parse(args)

	if *cartID == "" || *lineID == "" {
		fatal("-cart and -line are required")
	}

	payload := map[string]interface{}{
		"lineIds": []string{*lineID},
	}

	status, body := request("DELETE", "/cart/lines", *cartID, payload)
	printResponse(status, body, "")
}

func runPay(args []string) {
	fs := newFlagSet("pay")
	cartID := fs.String("cart", "", "cart ID (required)")
	fs.Parse(args)

	if *cartID == "" {
		fatal("-cart is required")
	}

	status, body := request("POST", "/checkout/payment-session", *cartID, nil)

	if !quiet {
		var bootstrap struct {
			Outcome string `json:"outcome"`
		}
		if json.Unmarshal(body, &bootstrap) == nil && bootstrap.Outcome != "" {
			fmt.Printf("%soutcome: %s%s\n", colorCyan, bootstrap.Outcome, colorReset)
		}
	}
	printResponse(status, body, "")
}

func runRevalidate(args []string) {
	fs := newFlagSet("revalidate")
	tags := fs.String("tags", "", "comma-separated cache tags (required)")
	fs.Parse(args)

	if *tags == "" {
		fatal("-tags is required")
	}

	req, err := http.NewRequest("POST", strings.TrimSuffix(gatewayURL, "/")+"/revalidate", nil)
	if err != nil {
		fatal("building request: %v", err)
	}
	// Cache-Tag is a structured list of tokens; plain comma-separated
	// names are already valid.
	req.Header.Set("Cache-Tag", strings.ReplaceAll(*tags, ",", ", "))

	resp, err := client.Do(req)
	if err != nil {
		fatal("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	printResponse(resp.StatusCode, body, "")
}
