// AngelaMos | 2026
// entity.go

package vote

import (
	"time"

	"github.com/querystack/querystack/internal/interaction"
)

type VoteType string

const (
	TypeUpvote   VoteType = "upvote"
	TypeDownvote VoteType = "downvote"
)

func (t VoteType) Valid() bool {
	return t == TypeUpvote || t == TypeDownvote
}

// Interaction maps a vote type to its ledger action.
func (t VoteType) Interaction() interaction.Action {
	if t == TypeUpvote {
		return interaction.ActionUpvote
	}
	return interaction.ActionDownvote
}

type Vote struct {
	ID         string                 `db:"id"`
	AuthorID   string                 `db:"author_id"`
	TargetKind interaction.TargetKind `db:"target_kind"`
	TargetID   string                 `db:"target_id"`
	VoteType   VoteType               `db:"vote_type"`
	CreatedAt  time.Time              `db:"created_at"`
}

// Status describes what a cast did to the voter's existing vote.
type Status string

const (
	StatusAdded    Status = "added"
	StatusRemoved  Status = "removed"
	StatusSwitched Status = "switched"
)

type Counts struct {
	Upvotes   int `db:"upvotes"`
	Downvotes int `db:"downvotes"`
}
