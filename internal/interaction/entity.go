// AngelaMos | 2026
// entity.go

package interaction

import (
	"time"
)

// TargetKind is the closed set of content kinds an interaction or vote
// can point at. Persisted as a discriminator column next to the target
// id; resolution to a concrete table goes through explicit lookup
// tables, never dynamic reference paths.
type TargetKind string

const (
	KindQuestion TargetKind = "question"
	KindAnswer   TargetKind = "answer"
)

func (k TargetKind) Valid() bool {
	return k == KindQuestion || k == KindAnswer
}

type Action string

const (
	ActionView     Action = "view"
	ActionUpvote   Action = "upvote"
	ActionDownvote Action = "downvote"
	ActionBookmark Action = "bookmark"
	ActionPost     Action = "post"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionSearch   Action = "search"
)

func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionUpvote, ActionDownvote, ActionBookmark,
		ActionPost, ActionEdit, ActionDelete, ActionSearch:
		return true
	}
	return false
}

// Interaction is one row of the append-only ledger. Rows are never
// updated or deleted; reputation is derived from them at write time.
type Interaction struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	Action     Action     `db:"action"`
	TargetKind TargetKind `db:"target_kind"`
	TargetID   string     `db:"target_id"`
	CreatedAt  time.Time  `db:"created_at"`
}
