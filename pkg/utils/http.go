package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// JSONError writes a JSON error response with the given status code and
// message. It ensures the Content-Type is set to application/json.
func JSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONWrite writes the provided value as JSON with the given status code.
func JSONWrite(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	return json.NewEncoder(w).Encode(v)
}

const defaultWindowLimit = 50

// ParseWindow reads the `from` and `limit` listing query parameters.
// Both default when absent; an explicit limit of zero is honored and
// yields an empty window.
func ParseWindow(r *http.Request) (from, limit uint64, err error) {
	limit = defaultWindowLimit
	if v := r.URL.Query().Get("from"); v != "" {
		from, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid from: %q", v)
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid limit: %q", v)
		}
	}
	return from, limit, nil
}
