package models

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("10000000000000000000000")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if a.String() != "10000000000000000000000" {
		t.Fatalf("round trip mismatch: %s", a.String())
	}

	// empty means zero
	z, err := ParseAmount("")
	if err != nil {
		t.Fatalf("ParseAmount empty: %v", err)
	}
	if !z.IsZero() {
		t.Fatal("empty input should parse to zero")
	}

	for _, bad := range []string{"-1", "1.5", "1e9", "abc", "0x10"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestAmountCmp(t *testing.T) {
	small := MustAmount("99")
	big := MustAmount("100")
	if small.Cmp(big) >= 0 {
		t.Fatal("99 should compare below 100")
	}
	if big.Cmp(big) != 0 {
		t.Fatal("equal amounts should compare equal")
	}
}

func TestAmountJSON(t *testing.T) {
	type payload struct {
		Fee Amount `json:"fee"`
	}
	b, err := json.Marshal(payload{Fee: MustAmount("12345678901234567890")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"fee":"12345678901234567890"}` {
		t.Fatalf("amounts must serialize as decimal strings, got %s", b)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"fee":"7"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Fee.String() != "7" {
		t.Fatalf("expected 7, got %s", p.Fee.String())
	}
	if err := json.Unmarshal([]byte(`{"fee":"-7"}`), &p); err == nil {
		t.Fatal("negative amounts must be rejected")
	}
}

func TestFeesYAML(t *testing.T) {
	src := `
post_fee: "100"
thread_fee: "200"
profile_fee: "300"
friend_fee: "10000000000000000000000"
`
	var f Fees
	if err := yaml.Unmarshal([]byte(src), &f); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if f.ThreadFee.String() != "200" {
		t.Fatalf("thread fee: %s", f.ThreadFee.String())
	}
	if f.FriendFee.String() != "10000000000000000000000" {
		t.Fatalf("friend fee: %s", f.FriendFee.String())
	}
}
