// Package apiversion negotiates the storefront API version. Clients may
// pin the contract they were built against via the Storefront-Version
// header (an RFC 8941 item, e.g. `"v1.2.0"`); the gateway rejects versions
// newer than it supports instead of answering with a shape the client
// cannot parse.
package apiversion

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dunglas/httpsfv"
	"golang.org/x/mod/semver"
)

// Header carries the client's pinned API version.
const Header = "Storefront-Version"

// Supported is the newest contract version this gateway serves.
const Supported = "v1.2.0"

// Parse extracts the version from a Storefront-Version header value.
// The header is an RFC 8941 item whose value is a version string; a
// leading "v" is optional on the wire and normalized in.
func Parse(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("empty Storefront-Version header")
	}

	item, err := httpsfv.UnmarshalItem([]string{header})
	if err != nil {
		return "", fmt.Errorf("invalid Storefront-Version header: %w", err)
	}

	var version string
	switch v := item.Value.(type) {
	case string:
		version = v
	case httpsfv.Token:
		version = string(v)
	default:
		return "", errors.New("Storefront-Version value must be a string")
	}

	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return "", fmt.Errorf("not a semantic version: %q", version)
	}
	return version, nil
}

// Middleware enforces version compatibility. Requests without the header
// pass through and get the current contract. A malformed header or a
// version newer than Supported is rejected with 400; older versions pass,
// the contract is additive within a major.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(Header, Supported)

			header := r.Header.Get(Header)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			version, err := Parse(header)
			if err != nil {
				logger.Warn("invalid version header",
					slog.String("header", header),
					slog.String("error", err.Error()))
				writeVersionError(w, "invalid_version", err.Error())
				return
			}

			if semver.Compare(version, Supported) > 0 {
				writeVersionError(w, "unsupported_version",
					fmt.Sprintf("requested version %s is newer than supported %s", version, Supported))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeVersionError writes the standard error envelope.
func writeVersionError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	resp := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	resp.Error.Code = code
	resp.Error.Message = message

	json.NewEncoder(w).Encode(resp)
}
