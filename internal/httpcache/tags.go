package httpcache

import (
	"errors"
	"strings"

	"github.com/dunglas/httpsfv"
)

// The Cache-Tag header carries cache tags as an RFC 8941 structured list of
// tokens, e.g. `products, collections`. Responses emit it so CDN layers can
// key purges on it; the revalidation webhook accepts it to name the tags to
// purge.

// TagHeader is the header name carrying structured cache tags.
const TagHeader = "Cache-Tag"

// FormatTagHeader renders tags as a structured-field list for Cache-Tag.
func FormatTagHeader(tags []string) (string, error) {
	list := httpsfv.List{}
	for _, tag := range tags {
		list = append(list, httpsfv.NewItem(httpsfv.Token(tag)))
	}
	return httpsfv.Marshal(list)
}

// ParseTagHeader parses a structured-field list of tokens or strings into
// tag names. Empty or whitespace-only headers yield no tags.
func ParseTagHeader(header string) ([]string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}

	list, err := httpsfv.UnmarshalList([]string{header})
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(list))
	for _, member := range list {
		item, ok := member.(httpsfv.Item)
		if !ok {
			return nil, errors.New("cache tag must be a bare item")
		}
		switch v := item.Value.(type) {
		case httpsfv.Token:
			tags = append(tags, string(v))
		case string:
			tags = append(tags, v)
		default:
			return nil, errors.New("cache tag must be a token or string")
		}
	}
	return tags, nil
}
