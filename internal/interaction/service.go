// AngelaMos | 2026
// service.go

package interaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/user"
)

// ReputationStore adjusts a user's reputation counter. Satisfied by
// user.Repository bound to the same transaction as the ledger insert.
type ReputationStore interface {
	AdjustReputation(ctx context.Context, userID string, delta int) error
}

// Stores holds the two transaction-scoped collaborators the accounting
// rule touches.
type Stores struct {
	Interactions Repository
	Users        ReputationStore
}

type TxRunner func(ctx context.Context, fn func(Stores) error) error

type Input struct {
	ActorID    string
	Action     Action
	TargetKind TargetKind
	TargetID   string
	// AuthorID owns the content being acted on. For self-authored
	// actions (posting, deleting own content) it equals ActorID.
	AuthorID string
}

type Service struct {
	runTx TxRunner
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		runTx: func(ctx context.Context, fn func(Stores) error) error {
			return core.InTx(ctx, db, func(tx *sqlx.Tx) error {
				return fn(Stores{
					Interactions: NewRepository(tx),
					Users:        user.NewRepository(tx),
				})
			})
		},
	}
}

// NewServiceWithRunner is for tests that substitute the transaction
// boundary with fakes.
func NewServiceWithRunner(runTx TxRunner) *Service {
	return &Service{runTx: runTx}
}

// Record persists one ledger entry and applies the reputation rule in a
// single transaction. Either both writes land or neither does; a failed
// reputation update leaves no orphaned interaction row.
func (s *Service) Record(ctx context.Context, in Input) (*Interaction, error) {
	if !in.Action.Valid() {
		return nil, fmt.Errorf(
			"record interaction: invalid action %q: %w",
			in.Action,
			core.ErrInvalidInput,
		)
	}

	if !in.TargetKind.Valid() {
		return nil, fmt.Errorf(
			"record interaction: invalid target kind %q: %w",
			in.TargetKind,
			core.ErrInvalidInput,
		)
	}

	if in.ActorID == "" || in.AuthorID == "" || in.TargetID == "" {
		return nil, fmt.Errorf(
			"record interaction: missing ids: %w",
			core.ErrInvalidInput,
		)
	}

	rec := &Interaction{
		ID:         uuid.New().String(),
		UserID:     in.ActorID,
		Action:     in.Action,
		TargetKind: in.TargetKind,
		TargetID:   in.TargetID,
	}

	err := s.runTx(ctx, func(stores Stores) error {
		if err := stores.Interactions.Create(ctx, rec); err != nil {
			return err
		}

		return applyReputation(ctx, stores.Users, in)
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// applyReputation applies the point table. When the performer authored
// the content themselves only the author-side delta lands, once.
func applyReputation(
	ctx context.Context,
	users ReputationStore,
	in Input,
) error {
	performerPoints, authorPoints := Points(in.Action, in.TargetKind)

	if in.ActorID == in.AuthorID {
		if authorPoints == 0 {
			return nil
		}
		return users.AdjustReputation(ctx, in.AuthorID, authorPoints)
	}

	if performerPoints != 0 {
		if err := users.AdjustReputation(ctx, in.ActorID, performerPoints); err != nil {
			return err
		}
	}

	if authorPoints != 0 {
		if err := users.AdjustReputation(ctx, in.AuthorID, authorPoints); err != nil {
			return err
		}
	}

	return nil
}

// History returns a user's most recent ledger entries.
func (s *Service) History(
	ctx context.Context,
	userID string,
	limit int,
) ([]Interaction, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var recs []Interaction
	err := s.runTx(ctx, func(stores Stores) error {
		var listErr error
		recs, listErr = stores.Interactions.ListByUser(ctx, userID, limit)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	return recs, nil
}
