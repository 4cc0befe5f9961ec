package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseWindow(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/threads?from=3&limit=7", nil)
	from, limit, err := ParseWindow(r)
	if err != nil {
		t.Fatalf("ParseWindow: %v", err)
	}
	if from != 3 || limit != 7 {
		t.Fatalf("got from=%d limit=%d", from, limit)
	}
}

func TestParseWindowDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/threads", nil)
	from, limit, err := ParseWindow(r)
	if err != nil {
		t.Fatalf("ParseWindow: %v", err)
	}
	if from != 0 || limit != defaultWindowLimit {
		t.Fatalf("got from=%d limit=%d", from, limit)
	}

	// an explicit zero limit is a real request for an empty window
	r2 := httptest.NewRequest("GET", "/v1/threads?limit=0", nil)
	_, limit, err = ParseWindow(r2)
	if err != nil {
		t.Fatalf("ParseWindow: %v", err)
	}
	if limit != 0 {
		t.Fatalf("explicit zero limit should stay zero, got %d", limit)
	}
}

func TestParseWindowRejectsGarbage(t *testing.T) {
	for _, q := range []string{"from=-1", "from=abc", "limit=1.5"} {
		r := httptest.NewRequest("GET", "/v1/threads?"+q, nil)
		if _, _, err := ParseWindow(r); err == nil {
			t.Fatalf("expected error for %q", q)
		}
	}
}
