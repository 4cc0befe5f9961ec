package main

import (
	"flag"
	"fmt"
	"os"

	"agoradb/pkg/store"
)

// Dumps raw store records by key prefix. Handy for poking at a database
// directory offline (person:, thread:, refund:, state:).
func main() {
	var path string
	var prefix string
	flag.StringVar(&path, "path", "", "pebble database path")
	flag.StringVar(&prefix, "prefix", "", "key prefix to scan (empty scans everything)")
	flag.Parse()
	if path == "" {
		fmt.Fprintln(os.Stderr, "--path required")
		os.Exit(2)
	}

	if err := store.Open(path); err != nil {
		fmt.Fprintf(os.Stderr, "open failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	n := 0
	err := store.ScanPrefix(prefix, func(key string, value []byte) error {
		fmt.Printf("%s\t%s\n", key, value)
		n++
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d records\n", n)
}
