// AngelaMos | 2026
// service.go

package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/querystack/querystack/internal/core"
	"github.com/querystack/querystack/internal/interaction"
)

// TxRunner executes fn against a transaction-scoped Store, committing when
// fn returns nil.
type TxRunner func(ctx context.Context, fn func(Store) error) error

type Result struct {
	Status    Status
	VoteType  VoteType
	Upvotes   int
	Downvotes int
}

type Service struct {
	runTx        TxRunner
	store        Store
	interactions *interaction.Service
	logger       *slog.Logger
}

func NewService(
	db *sqlx.DB,
	interactions *interaction.Service,
	logger *slog.Logger,
) *Service {
	runTx := func(ctx context.Context, fn func(Store) error) error {
		return core.InTx(ctx, db, func(tx *sqlx.Tx) error {
			return fn(NewStore(tx))
		})
	}

	return &Service{
		runTx:        runTx,
		store:        NewStore(db),
		interactions: interactions,
		logger:       logger,
	}
}

// NewServiceWithRunner wires fakes in tests.
func NewServiceWithRunner(
	runTx TxRunner,
	store Store,
	interactions *interaction.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		runTx:        runTx,
		store:        store,
		interactions: interactions,
		logger:       logger,
	}
}

// Cast applies one vote press. Pressing a fresh vote adds it, pressing the
// same vote again removes it, pressing the opposite vote switches it. The
// vote row and the denormalized counters move in one transaction; placed
// votes feed the interaction ledger, removals do not claw points back.
func (s *Service) Cast(
	ctx context.Context,
	userID string,
	kind interaction.TargetKind,
	targetID string,
	voteType VoteType,
) (*Result, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf(
			"cast vote: invalid target kind %q: %w",
			kind,
			core.ErrInvalidInput,
		)
	}
	if !voteType.Valid() {
		return nil, fmt.Errorf(
			"cast vote: invalid vote type %q: %w",
			voteType,
			core.ErrInvalidInput,
		)
	}

	var (
		result      Result
		targetOwner string
		placed      bool
	)

	err := s.runTx(ctx, func(store Store) error {
		authorID, err := store.ResolveTargetAuthor(ctx, kind, targetID)
		if err != nil {
			return err
		}
		targetOwner = authorID

		existing, err := store.GetVote(ctx, userID, kind, targetID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return err
		}

		switch {
		case existing == nil:
			vote := &Vote{
				ID:         uuid.New().String(),
				AuthorID:   userID,
				TargetKind: kind,
				TargetID:   targetID,
				VoteType:   voteType,
			}
			if err := store.CreateVote(ctx, vote); err != nil {
				return err
			}
			upDelta, downDelta := deltas(voteType, 1)
			if err := store.AdjustCounts(ctx, kind, targetID, upDelta, downDelta); err != nil {
				return err
			}
			result.Status = StatusAdded
			placed = true

		case existing.VoteType == voteType:
			if err := store.DeleteVote(ctx, existing.ID); err != nil {
				return err
			}
			upDelta, downDelta := deltas(voteType, -1)
			if err := store.AdjustCounts(ctx, kind, targetID, upDelta, downDelta); err != nil {
				return err
			}
			result.Status = StatusRemoved

		default:
			if err := store.DeleteVote(ctx, existing.ID); err != nil {
				return err
			}
			vote := &Vote{
				ID:         uuid.New().String(),
				AuthorID:   userID,
				TargetKind: kind,
				TargetID:   targetID,
				VoteType:   voteType,
			}
			if err := store.CreateVote(ctx, vote); err != nil {
				return err
			}
			upDelta, downDelta := deltas(existing.VoteType, -1)
			newUp, newDown := deltas(voteType, 1)
			if err := store.AdjustCounts(
				ctx, kind, targetID, upDelta+newUp, downDelta+newDown,
			); err != nil {
				return err
			}
			result.Status = StatusSwitched
			placed = true
		}

		counts, err := store.GetCounts(ctx, kind, targetID)
		if err != nil {
			return err
		}

		result.VoteType = voteType
		result.Upvotes = counts.Upvotes
		result.Downvotes = counts.Downvotes
		return nil
	})
	if err != nil {
		return nil, err
	}

	if placed {
		if _, err := s.interactions.Record(ctx, interaction.Input{
			ActorID:    userID,
			Action:     voteType.Interaction(),
			TargetKind: kind,
			TargetID:   targetID,
			AuthorID:   targetOwner,
		}); err != nil {
			s.logger.Error("record vote interaction",
				"target_id", targetID, "error", err)
		}
	}

	return &result, nil
}

// GetVoteStatus reports the caller's current vote on a target, if any.
func (s *Service) GetVoteStatus(
	ctx context.Context,
	userID string,
	kind interaction.TargetKind,
	targetID string,
) (*Vote, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf(
			"vote status: invalid target kind %q: %w",
			kind,
			core.ErrInvalidInput,
		)
	}

	vote, err := s.store.GetVote(ctx, userID, kind, targetID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return vote, nil
}

// deltas returns the (upvotes, downvotes) adjustment for applying sign to
// one vote of the given type.
func deltas(voteType VoteType, sign int) (int, int) {
	if voteType == TypeUpvote {
		return sign, 0
	}
	return 0, sign
}
