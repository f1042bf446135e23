// AngelaMos | 2026
// points.go

package interaction

type pointEntry struct {
	performer int
	author    int
}

var pointTable = map[Action]map[TargetKind]pointEntry{
	ActionUpvote: {
		KindQuestion: {performer: 2, author: 10},
		KindAnswer:   {performer: 2, author: 10},
	},
	ActionDownvote: {
		KindQuestion: {performer: -1, author: -2},
		KindAnswer:   {performer: -1, author: -2},
	},
	ActionPost: {
		KindQuestion: {author: 5},
		KindAnswer:   {author: 10},
	},
	ActionDelete: {
		KindQuestion: {author: -5},
		KindAnswer:   {author: -10},
	},
}

// Points returns the reputation deltas for one interaction. Actions
// absent from the table (view, bookmark, edit, search) are ledger-only
// and score zero for both sides.
func Points(action Action, kind TargetKind) (performer, author int) {
	entry, ok := pointTable[action][kind]
	if !ok {
		return 0, 0
	}
	return entry.performer, entry.author
}
