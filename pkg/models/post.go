package models

import (
	"fmt"
	"sort"
)

// Reaction is one of the three supported reaction kinds.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
	ReactionFlag    Reaction = "flag"
)

// Valid reports whether r is a known reaction kind.
func (r Reaction) Valid() bool {
	switch r {
	case ReactionLike, ReactionDislike, ReactionFlag:
		return true
	}
	return false
}

func (r *Reaction) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid reaction: %s", string(b))
	}
	v := Reaction(b[1 : len(b)-1])
	if !v.Valid() {
		return fmt.Errorf("invalid reaction: %q", string(v))
	}
	*r = v
	return nil
}

// AccountReaction is the single reaction slot an account holds on a post.
// It is rebuilt in full on every write; no history is kept.
type AccountReaction struct {
	Account   string   `json:"account"`
	Reaction  Reaction `json:"reaction"`
	CreatedTS int64    `json:"created_ts"`
}

// Ad is an optional promoted attachment on a post. No current operation
// sets one; the field exists so stored posts round-trip it.
type Ad struct {
	Text    string `json:"text"`
	URL     string `json:"url"`
	Account string `json:"account"`
}

// Post is one authored message in a thread.
type Post struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Tags      []string `json:"tags"`
	Account   string   `json:"account"`
	ContentID *string  `json:"cid,omitempty"`
	Ad        *Ad      `json:"ad,omitempty"`
	CreatedTS int64    `json:"created_ts"`
	// Reactions maps reacting account -> its single reaction slot.
	Reactions map[string]AccountReaction `json:"reactions,omitempty"`
}

// PostView is the denormalized projection of a post: the reaction map is
// flattened into a list, ordered by account for stable output. Ads are
// not exposed through the view.
type PostView struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Tags      []string          `json:"tags"`
	Account   string            `json:"account"`
	ContentID *string           `json:"cid,omitempty"`
	CreatedTS int64             `json:"created_ts"`
	Reactions []AccountReaction `json:"reactions"`
}

// View builds the projection for p.
func (p *Post) View() PostView {
	accounts := make([]string, 0, len(p.Reactions))
	for a := range p.Reactions {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	reactions := make([]AccountReaction, 0, len(accounts))
	for _, a := range accounts {
		reactions = append(reactions, p.Reactions[a])
	}
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	return PostView{
		ID:        p.ID,
		Text:      p.Text,
		Tags:      tags,
		Account:   p.Account,
		ContentID: p.ContentID,
		CreatedTS: p.CreatedTS,
		Reactions: reactions,
	}
}
