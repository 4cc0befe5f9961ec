package models

// ThreadRecord is the stored metadata for a thread. Posts live under
// their own keys; Seq records creation order across all threads for the
// reverse-ordered listing.
type ThreadRecord struct {
	Name      string `json:"name"`
	CreatedTS int64  `json:"created_ts"`
	Seq       uint64 `json:"seq"`
}

// ThreadMeta is the listing projection: thread name plus post count.
type ThreadMeta struct {
	Name string `json:"name"`
	Size uint64 `json:"size"`
}
