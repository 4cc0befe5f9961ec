package models

// Person is the stored record for an account: profile fields plus the
// friend-request inbox and the confirmed friend set. The account is the
// primary key and is immutable once created.
type Person struct {
	Account   string  `json:"account"`
	Text      *string `json:"text,omitempty"`
	ContentID *string `json:"cid,omitempty"`
	CreatedTS int64   `json:"created_ts"`
	// Requests is the pending friend-request inbox in arrival order; at
	// most one entry per requester account (re-requests overwrite in place).
	Requests []FriendRequest `json:"friend_requests,omitempty"`
	// Friends is the confirmed friend set. Symmetry with the counterpart
	// record is maintained by the forum service, never here.
	Friends []string `json:"friends,omitempty"`
	// Seq records insertion order across all people for listing.
	Seq uint64 `json:"seq"`
}

// FriendRequest is one pending inbox entry.
type FriendRequest struct {
	Account string  `json:"account"`
	Message *string `json:"message,omitempty"`
}

// RequestIndex returns the inbox position holding a request from the
// given account, or -1.
func (p *Person) RequestIndex(account string) int {
	for i, r := range p.Requests {
		if r.Account == account {
			return i
		}
	}
	return -1
}

// HasFriend reports whether account is in the confirmed friend set.
func (p *Person) HasFriend(account string) bool {
	for _, f := range p.Friends {
		if f == account {
			return true
		}
	}
	return false
}

// PersonView is the denormalized profile projection returned by queries.
// The friend-request inbox is intentionally excluded; it has its own
// paginated query.
type PersonView struct {
	Account   string   `json:"account"`
	Text      *string  `json:"text,omitempty"`
	ContentID *string  `json:"cid,omitempty"`
	CreatedTS int64    `json:"created_ts"`
	Friends   []string `json:"friends"`
}

// View builds the profile projection for p.
func (p *Person) View() PersonView {
	friends := make([]string, len(p.Friends))
	copy(friends, p.Friends)
	return PersonView{
		Account:   p.Account,
		Text:      p.Text,
		ContentID: p.ContentID,
		CreatedTS: p.CreatedTS,
		Friends:   friends,
	}
}

// FriendRequestView is one entry of the paginated friend-request listing.
type FriendRequestView struct {
	Account string  `json:"account"`
	Message *string `json:"message,omitempty"`
}
