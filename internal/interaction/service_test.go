// AngelaMos | 2026
// service_test.go

package interaction

import (
	"context"
	"errors"
	"testing"
)

type fakeLedger struct {
	staged    []Interaction
	committed []Interaction
	createErr error
}

func (f *fakeLedger) Create(ctx context.Context, rec *Interaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.staged = append(f.staged, *rec)
	return nil
}

func (f *fakeLedger) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]Interaction, error) {
	return f.committed, nil
}

type fakeUsers struct {
	staged    map[string]int
	committed map[string]int
	failFor   string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		staged:    map[string]int{},
		committed: map[string]int{},
	}
}

func (f *fakeUsers) AdjustReputation(
	ctx context.Context,
	userID string,
	delta int,
) error {
	if f.failFor == userID {
		return errors.New("write failed")
	}
	f.staged[userID] += delta
	return nil
}

// newTestService wires fakes behind a runner with transaction semantics:
// staged writes only become visible when the function returns nil.
func newTestService(ledger *fakeLedger, users *fakeUsers) *Service {
	return NewServiceWithRunner(
		func(ctx context.Context, fn func(Stores) error) error {
			ledger.staged = nil
			users.staged = map[string]int{}

			if err := fn(Stores{Interactions: ledger, Users: users}); err != nil {
				return err
			}

			ledger.committed = append(ledger.committed, ledger.staged...)
			for id, delta := range users.staged {
				users.committed[id] += delta
			}
			return nil
		},
	)
}

func TestRecordAppliesPointTable(t *testing.T) {
	tests := []struct {
		name      string
		action    Action
		kind      TargetKind
		performer int
		author    int
	}{
		{"upvote question", ActionUpvote, KindQuestion, 2, 10},
		{"upvote answer", ActionUpvote, KindAnswer, 2, 10},
		{"downvote question", ActionDownvote, KindQuestion, -1, -2},
		{"downvote answer", ActionDownvote, KindAnswer, -1, -2},
		{"post question", ActionPost, KindQuestion, 0, 5},
		{"post answer", ActionPost, KindAnswer, 0, 10},
		{"delete question", ActionDelete, KindQuestion, 0, -5},
		{"delete answer", ActionDelete, KindAnswer, 0, -10},
		{"view", ActionView, KindQuestion, 0, 0},
		{"bookmark", ActionBookmark, KindQuestion, 0, 0},
		{"edit", ActionEdit, KindQuestion, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			users := newFakeUsers()
			svc := newTestService(ledger, users)

			_, err := svc.Record(context.Background(), Input{
				ActorID:    "actor",
				Action:     tc.action,
				TargetKind: tc.kind,
				TargetID:   "target",
				AuthorID:   "author",
			})
			if err != nil {
				t.Fatalf("record: %v", err)
			}

			if got := users.committed["actor"]; got != tc.performer {
				t.Errorf("performer delta = %d, want %d", got, tc.performer)
			}
			if got := users.committed["author"]; got != tc.author {
				t.Errorf("author delta = %d, want %d", got, tc.author)
			}
			if len(ledger.committed) != 1 {
				t.Errorf("ledger rows = %d, want 1", len(ledger.committed))
			}
		})
	}
}

func TestRecordSelfInteractionAppliesAuthorDeltaOnce(t *testing.T) {
	ledger := &fakeLedger{}
	users := newFakeUsers()
	svc := newTestService(ledger, users)

	_, err := svc.Record(context.Background(), Input{
		ActorID:    "alice",
		Action:     ActionDelete,
		TargetKind: KindQuestion,
		TargetID:   "q1",
		AuthorID:   "alice",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if got := users.committed["alice"]; got != -5 {
		t.Fatalf("self delete delta = %d, want -5", got)
	}
}

func TestRecordSelfUpvoteSkipsPerformerPoints(t *testing.T) {
	ledger := &fakeLedger{}
	users := newFakeUsers()
	svc := newTestService(ledger, users)

	_, err := svc.Record(context.Background(), Input{
		ActorID:    "bob",
		Action:     ActionUpvote,
		TargetKind: KindAnswer,
		TargetID:   "a1",
		AuthorID:   "bob",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// Author side only: +10, not +10 and +2.
	if got := users.committed["bob"]; got != 10 {
		t.Fatalf("self upvote delta = %d, want 10", got)
	}
}

func TestRecordDistinctUsersBothAdjusted(t *testing.T) {
	ledger := &fakeLedger{}
	users := newFakeUsers()
	svc := newTestService(ledger, users)

	_, err := svc.Record(context.Background(), Input{
		ActorID:    "a",
		Action:     ActionUpvote,
		TargetKind: KindQuestion,
		TargetID:   "q1",
		AuthorID:   "b",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if got := users.committed["a"]; got != 2 {
		t.Errorf("performer reputation = %d, want 2", got)
	}
	if got := users.committed["b"]; got != 10 {
		t.Errorf("author reputation = %d, want 10", got)
	}
}

func TestRecordRollsBackLedgerOnReputationFailure(t *testing.T) {
	ledger := &fakeLedger{}
	users := newFakeUsers()
	users.failFor = "author"
	svc := newTestService(ledger, users)

	_, err := svc.Record(context.Background(), Input{
		ActorID:    "actor",
		Action:     ActionUpvote,
		TargetKind: KindQuestion,
		TargetID:   "q1",
		AuthorID:   "author",
	})
	if err == nil {
		t.Fatal("expected error from failed reputation update")
	}

	if len(ledger.committed) != 0 {
		t.Fatalf("interaction committed despite rollback: %d rows", len(ledger.committed))
	}
	if users.committed["actor"] != 0 {
		t.Fatalf("performer reputation committed despite rollback: %d", users.committed["actor"])
	}
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	svc := newTestService(&fakeLedger{}, newFakeUsers())

	cases := []Input{
		{ActorID: "a", Action: "like", TargetKind: KindQuestion, TargetID: "t", AuthorID: "b"},
		{ActorID: "a", Action: ActionUpvote, TargetKind: "doc", TargetID: "t", AuthorID: "b"},
		{ActorID: "", Action: ActionUpvote, TargetKind: KindQuestion, TargetID: "t", AuthorID: "b"},
		{ActorID: "a", Action: ActionUpvote, TargetKind: KindQuestion, TargetID: "", AuthorID: "b"},
	}

	for _, in := range cases {
		if _, err := svc.Record(context.Background(), in); err == nil {
			t.Errorf("expected validation error for %+v", in)
		}
	}
}

func TestPointsUnknownActionScoresZero(t *testing.T) {
	performer, author := Points(ActionSearch, KindQuestion)
	if performer != 0 || author != 0 {
		t.Fatalf("search points = (%d, %d), want (0, 0)", performer, author)
	}
}
