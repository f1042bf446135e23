// AngelaMos | 2026
// service_test.go

package vote

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
)

type fakeStore struct {
	votes   map[string]*Vote // keyed author|kind|target
	counts  map[string]*Counts
	authors map[string]string   // keyed kind|target
	answers map[string][]string // question id -> answer ids
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		votes:   map[string]*Vote{},
		counts:  map[string]*Counts{},
		authors: map[string]string{},
		answers: map[string][]string{},
	}
}

func (f *fakeStore) addTarget(
	kind interaction.TargetKind,
	targetID, authorID string,
) {
	f.authors[string(kind)+"|"+targetID] = authorID
	f.counts[string(kind)+"|"+targetID] = &Counts{}
}

func voteKey(authorID string, kind interaction.TargetKind, targetID string) string {
	return authorID + "|" + string(kind) + "|" + targetID
}

func (f *fakeStore) GetVote(
	_ context.Context,
	authorID string,
	kind interaction.TargetKind,
	targetID string,
) (*Vote, error) {
	v, ok := f.votes[voteKey(authorID, kind, targetID)]
	if !ok {
		return nil, fmt.Errorf("get vote: %w", core.ErrNotFound)
	}
	return v, nil
}

func (f *fakeStore) CreateVote(_ context.Context, vote *Vote) error {
	key := voteKey(vote.AuthorID, vote.TargetKind, vote.TargetID)
	if _, exists := f.votes[key]; exists {
		return fmt.Errorf("create vote: %w", core.ErrDuplicateKey)
	}
	f.votes[key] = vote
	return nil
}

func (f *fakeStore) DeleteVote(_ context.Context, id string) error {
	for key, v := range f.votes {
		if v.ID == id {
			delete(f.votes, key)
			return nil
		}
	}
	return fmt.Errorf("delete vote: %w", core.ErrNotFound)
}

func (f *fakeStore) ResolveTargetAuthor(
	_ context.Context,
	kind interaction.TargetKind,
	targetID string,
) (string, error) {
	author, ok := f.authors[string(kind)+"|"+targetID]
	if !ok {
		return "", fmt.Errorf("resolve vote target: %w", core.ErrNotFound)
	}
	return author, nil
}

func (f *fakeStore) AdjustCounts(
	_ context.Context,
	kind interaction.TargetKind,
	targetID string,
	upDelta, downDelta int,
) error {
	counts := f.counts[string(kind)+"|"+targetID]
	counts.Upvotes += upDelta
	counts.Downvotes += downDelta
	return nil
}

func (f *fakeStore) GetCounts(
	_ context.Context,
	kind interaction.TargetKind,
	targetID string,
) (Counts, error) {
	return *f.counts[string(kind)+"|"+targetID], nil
}

func (f *fakeStore) PurgeForTarget(
	_ context.Context,
	kind interaction.TargetKind,
	targetID string,
) error {
	for key, v := range f.votes {
		if v.TargetKind == kind && v.TargetID == targetID {
			delete(f.votes, key)
		}
	}
	return nil
}

func (f *fakeStore) PurgeForQuestionAnswers(
	ctx context.Context,
	questionID string,
) error {
	for _, answerID := range f.answers[questionID] {
		if err := f.PurgeForTarget(
			ctx,
			interaction.KindAnswer,
			answerID,
		); err != nil {
			return err
		}
	}
	return nil
}

type fakeLedger struct {
	rows []interaction.Interaction
}

func (f *fakeLedger) Create(_ context.Context, rec *interaction.Interaction) error {
	f.rows = append(f.rows, *rec)
	return nil
}

func (f *fakeLedger) ListByUser(
	_ context.Context,
	userID string,
	limit int,
) ([]interaction.Interaction, error) {
	return nil, nil
}

type fakeUsers struct {
	reputation map[string]int
}

func (f *fakeUsers) AdjustReputation(_ context.Context, userID string, delta int) error {
	f.reputation[userID] += delta
	return nil
}

func newTestService(store *fakeStore) (*Service, *fakeLedger, *fakeUsers) {
	ledger := &fakeLedger{}
	users := &fakeUsers{reputation: map[string]int{}}

	interactions := interaction.NewServiceWithRunner(
		func(ctx context.Context, fn func(interaction.Stores) error) error {
			return fn(interaction.Stores{Interactions: ledger, Users: users})
		},
	)

	runTx := func(ctx context.Context, fn func(Store) error) error {
		return fn(store)
	}

	svc := NewServiceWithRunner(
		runTx,
		store,
		interactions,
		slog.New(slog.DiscardHandler),
	)

	return svc, ledger, users
}

func TestCastAddsFreshVote(t *testing.T) {
	store := newFakeStore()
	store.addTarget(interaction.KindQuestion, "q1", "author")
	svc, ledger, users := newTestService(store)

	result, err := svc.Cast(
		context.Background(),
		"voter",
		interaction.KindQuestion,
		"q1",
		TypeUpvote,
	)
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}

	if result.Status != StatusAdded {
		t.Errorf("status = %q, want %q", result.Status, StatusAdded)
	}
	if result.Upvotes != 1 || result.Downvotes != 0 {
		t.Errorf("counts = %d/%d, want 1/0", result.Upvotes, result.Downvotes)
	}

	if len(ledger.rows) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(ledger.rows))
	}
	if ledger.rows[0].Action != interaction.ActionUpvote {
		t.Errorf("ledger action = %q, want upvote", ledger.rows[0].Action)
	}

	if users.reputation["voter"] != 2 {
		t.Errorf("voter reputation = %d, want 2", users.reputation["voter"])
	}
	if users.reputation["author"] != 10 {
		t.Errorf("author reputation = %d, want 10", users.reputation["author"])
	}
}

func TestCastSamePressRemovesVote(t *testing.T) {
	store := newFakeStore()
	store.addTarget(interaction.KindQuestion, "q1", "author")
	svc, ledger, users := newTestService(store)

	ctx := context.Background()
	if _, err := svc.Cast(ctx, "voter", interaction.KindQuestion, "q1", TypeUpvote); err != nil {
		t.Fatalf("first Cast: %v", err)
	}

	result, err := svc.Cast(ctx, "voter", interaction.KindQuestion, "q1", TypeUpvote)
	if err != nil {
		t.Fatalf("second Cast: %v", err)
	}

	if result.Status != StatusRemoved {
		t.Errorf("status = %q, want %q", result.Status, StatusRemoved)
	}
	if result.Upvotes != 0 {
		t.Errorf("upvotes = %d, want 0", result.Upvotes)
	}
	if len(store.votes) != 0 {
		t.Errorf("vote rows = %d, want 0", len(store.votes))
	}

	// Removal does not append to the ledger and earned points stay.
	if len(ledger.rows) != 1 {
		t.Errorf("ledger rows = %d, want 1", len(ledger.rows))
	}
	if users.reputation["voter"] != 2 || users.reputation["author"] != 10 {
		t.Errorf("reputation = %d/%d, want 2/10",
			users.reputation["voter"], users.reputation["author"])
	}
}

func TestCastOppositePressSwitchesVote(t *testing.T) {
	store := newFakeStore()
	store.addTarget(interaction.KindAnswer, "a1", "author")
	svc, ledger, users := newTestService(store)

	ctx := context.Background()
	if _, err := svc.Cast(ctx, "voter", interaction.KindAnswer, "a1", TypeUpvote); err != nil {
		t.Fatalf("first Cast: %v", err)
	}

	result, err := svc.Cast(ctx, "voter", interaction.KindAnswer, "a1", TypeDownvote)
	if err != nil {
		t.Fatalf("second Cast: %v", err)
	}

	if result.Status != StatusSwitched {
		t.Errorf("status = %q, want %q", result.Status, StatusSwitched)
	}
	if result.Upvotes != 0 || result.Downvotes != 1 {
		t.Errorf("counts = %d/%d, want 0/1", result.Upvotes, result.Downvotes)
	}

	if len(ledger.rows) != 2 {
		t.Fatalf("ledger rows = %d, want 2", len(ledger.rows))
	}
	if ledger.rows[1].Action != interaction.ActionDownvote {
		t.Errorf("second ledger action = %q, want downvote", ledger.rows[1].Action)
	}

	// Upvote earned 2/10, downvote applies -1/-2 on top, no reversal.
	if users.reputation["voter"] != 1 {
		t.Errorf("voter reputation = %d, want 1", users.reputation["voter"])
	}
	if users.reputation["author"] != 8 {
		t.Errorf("author reputation = %d, want 8", users.reputation["author"])
	}
}

func TestCastSelfVoteAppliesAuthorDeltaOnce(t *testing.T) {
	store := newFakeStore()
	store.addTarget(interaction.KindQuestion, "q1", "voter")
	svc, _, users := newTestService(store)

	_, err := svc.Cast(
		context.Background(),
		"voter",
		interaction.KindQuestion,
		"q1",
		TypeUpvote,
	)
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}

	if users.reputation["voter"] != 10 {
		t.Errorf("self-vote reputation = %d, want 10", users.reputation["voter"])
	}
}

func TestCastMissingTarget(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	_, err := svc.Cast(
		context.Background(),
		"voter",
		interaction.KindQuestion,
		"missing",
		TypeUpvote,
	)
	if err == nil {
		t.Fatal("expected error for missing target")
	}
}

func TestContentDeletePurgesVotes(t *testing.T) {
	store := newFakeStore()
	store.addTarget(interaction.KindQuestion, "q1", "author")
	store.addTarget(interaction.KindAnswer, "a1", "author")
	store.answers["q1"] = []string{"a1"}
	svc, _, _ := newTestService(store)

	ctx := context.Background()
	for _, voter := range []string{"alice", "bob"} {
		if _, err := svc.Cast(ctx, voter, interaction.KindQuestion, "q1", TypeUpvote); err != nil {
			t.Fatalf("Cast question: %v", err)
		}
		if _, err := svc.Cast(ctx, voter, interaction.KindAnswer, "a1", TypeDownvote); err != nil {
			t.Fatalf("Cast answer: %v", err)
		}
	}

	// A question delete purges answer votes first, then its own.
	if err := store.PurgeForQuestionAnswers(ctx, "q1"); err != nil {
		t.Fatalf("PurgeForQuestionAnswers: %v", err)
	}
	if err := store.PurgeForTarget(ctx, interaction.KindQuestion, "q1"); err != nil {
		t.Fatalf("PurgeForTarget: %v", err)
	}

	if len(store.votes) != 0 {
		t.Fatalf("vote rows = %d, want 0 after delete", len(store.votes))
	}

	status, err := svc.GetVoteStatus(ctx, "alice", interaction.KindQuestion, "q1")
	if err != nil {
		t.Fatalf("GetVoteStatus question: %v", err)
	}
	if status != nil {
		t.Fatal("expected no vote status on a deleted question")
	}

	status, err = svc.GetVoteStatus(ctx, "bob", interaction.KindAnswer, "a1")
	if err != nil {
		t.Fatalf("GetVoteStatus answer: %v", err)
	}
	if status != nil {
		t.Fatal("expected no vote status on a deleted answer")
	}
}

func TestCastInvalidInput(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	ctx := context.Background()

	if _, err := svc.Cast(ctx, "voter", "comment", "q1", TypeUpvote); err == nil {
		t.Error("expected error for invalid target kind")
	}

	if _, err := svc.Cast(ctx, "voter", interaction.KindQuestion, "q1", "sideways"); err == nil {
		t.Error("expected error for invalid vote type")
	}
}
