package store

import (
	"errors"
	"testing"
)

func openTest(t *testing.T) {
	t.Helper()
	if err := Open(t.TempDir()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = Close() })
}

func TestSetGetDelete(t *testing.T) {
	openTest(t)

	if err := Set("person:alice", []byte(`{"account":"alice"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, err := Get("person:alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(b) != `{"account":"alice"}` {
		t.Fatalf("unexpected value: %s", b)
	}

	if err := Delete("person:alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := Get("person:alice"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	openTest(t)
	if _, err := Get("nope"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestScanPrefixOrderAndCount(t *testing.T) {
	openTest(t)

	keys := []string{
		"thread:t1:meta",
		"thread:t1:post:00000000000000000002",
		"thread:t1:post:00000000000000000010",
		"thread:t2:meta",
		"person:alice",
	}
	for _, k := range keys {
		if err := Set(k, []byte("x")); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	var got []string
	err := ScanPrefix("thread:t1:", func(k string, _ []byte) error {
		got = append(got, k)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	want := []string{
		"thread:t1:meta",
		"thread:t1:post:00000000000000000002",
		"thread:t1:post:00000000000000000010",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	n, err := CountPrefix("thread:")
	if err != nil {
		t.Fatalf("CountPrefix: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 thread keys, got %d", n)
	}
}

func TestDeletePrefix(t *testing.T) {
	openTest(t)

	_ = Set("thread:t1:meta", []byte("x"))
	_ = Set("thread:t1:post:1", []byte("x"))
	_ = Set("thread:t2:meta", []byte("x"))

	if err := DeletePrefix("thread:t1:"); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	n, err := CountPrefix("thread:")
	if err != nil {
		t.Fatalf("CountPrefix: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only t2 to survive, got %d keys", n)
	}
}

func TestNotOpened(t *testing.T) {
	// do not open the store for this test
	if err := Set("k", nil); err == nil {
		t.Fatal("expected error writing to unopened store")
	}
	if Ready() {
		t.Fatal("Ready should be false before Open")
	}
}
