package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached search response.
type Key struct {
	// Endpoint is the API path, e.g. "/api/payments/search".
	Endpoint string

	// Query holds the search parameters as built from the committed filters.
	Query url.Values
}

// String generates a deterministic key.
//
//	payments:api/payments/search:currency=USD:page=1:pageSize=5
//
// Parameters are sorted so that two equal filter values always map to the
// same entry regardless of insertion order. Values are escaped so a search
// term containing ':' cannot collide with another key.
func (k Key) String() string {
	parts := []string{"payments"}

	if endpoint := strings.Trim(k.Endpoint, "/"); endpoint != "" {
		parts = append(parts, endpoint)
	}

	names := make([]string, 0, len(k.Query))
	for name := range k.Query {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range k.Query[name] {
			parts = append(parts, fmt.Sprintf("%s=%s", name, url.QueryEscape(value)))
		}
	}

	return strings.Join(parts, ":")
}
