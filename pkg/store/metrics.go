package store

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agoradb_store_ops_total",
		Help: "Count of store operations by kind.",
	}, []string{"op"})

	diskBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agoradb_store_disk_bytes",
		Help: "Best-effort on-disk size of the store directory.",
	})
)

// SizeBytes computes the on-disk size of the store directory. Best
// effort: unreadable entries are skipped. The value is also published on
// the agoradb_store_disk_bytes gauge.
func SizeBytes() uint64 {
	if dbPath == "" {
		return 0
	}
	var total uint64
	_ = filepath.WalkDir(dbPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += uint64(fi.Size())
		}
		return nil
	})
	diskBytes.Set(float64(total))
	return total
}
