// AngelaMos | 2026
// dto.go

package vote

type CastVoteRequest struct {
	TargetKind string `json:"target_kind" validate:"required,oneof=question answer"`
	TargetID   string `json:"target_id"   validate:"required,uuid"`
	VoteType   string `json:"vote_type"   validate:"required,oneof=upvote downvote"`
}

type VoteResponse struct {
	Status    string `json:"status"`
	VoteType  string `json:"vote_type"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}

type VoteStatusResponse struct {
	HasUpvoted   bool `json:"has_upvoted"`
	HasDownvoted bool `json:"has_downvoted"`
}
