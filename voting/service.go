// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/cycle-vote/models"
	"github.com/danielhkuo/cycle-vote/store"
)

// Store keys
const (
	KeyRound        = "current_round"
	KeyVotedWallets = "voted_wallets"
	KeyHistory      = "round_history"
)

// Service owns the voting round lifecycle. It is the only writer of the
// round, voted-wallet set and history records.
type Service struct {
	store         store.Store
	now           func() time.Time
	newID         func() string
	roundDuration time.Duration
	tokenSymbol   string
}

type Option func(*Service)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRoundDuration sets how long a default round stays open
func WithRoundDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.roundDuration = d
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithTokenSymbol sets the ticker used in archived burn amounts
func WithTokenSymbol(symbol string) Option {
	return func(s *Service) { s.tokenSymbol = symbol }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:         st,
		now:           time.Now,
		newID:         uuid.NewString,
		roundDuration: models.DefaultRoundDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultOptions returns the yes/no options of a default round
func DefaultOptions() []models.Option {
	return []models.Option{
		{ID: "yes", Label: "YES - Burn Now", Color: "green"},
		{ID: "no", Label: "NO - Wait", Color: "red"},
	}
}

// timestamp returns the current time in the form it takes after a store
// round trip: UTC, without a monotonic reading.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Round(0)
}

func (s *Service) defaultRound() models.Round {
	return models.Round{
		ID:       s.newID(),
		Question: models.DefaultQuestion,
		EndTime:  s.timestamp().Add(s.roundDuration),
		Options:  DefaultOptions(),
		IsActive: true,
	}
}

// loadRound reads the current round inside tx, creating the default round
// when none exists yet.
func (s *Service) loadRound(ctx context.Context, tx store.Tx) (models.Round, error) {
	var round models.Round
	err := tx.Get(ctx, KeyRound, &round)
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.Round{}, err
	}

	round = s.defaultRound()
	if err := tx.Set(ctx, KeyRound, round); err != nil {
		return models.Round{}, err
	}
	slog.Info("round initialized", "round_id", round.ID, "end_time", round.EndTime)
	return round, nil
}

// GetRound returns the current round, creating the default one on first access
func (s *Service) GetRound(ctx context.Context) (models.Round, error) {
	var round models.Round
	err := s.store.View(ctx, func(tx store.Tx) error {
		return tx.Get(ctx, KeyRound, &round)
	})
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.Round{}, storeFailure("load round", err)
	}

	// First access. Re-check under the writer lock so racing readers agree
	// on a single round.
	err = s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		round, err = s.loadRound(ctx, tx)
		return err
	})
	if err != nil {
		return models.Round{}, storeFailure("initialize round", err)
	}
	return round, nil
}

// HasVoted reports whether address has voted in the current round
func (s *Service) HasVoted(ctx context.Context, address string) (bool, error) {
	if address == "" {
		return false, invalid("missing wallet address")
	}

	var voted bool
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		voted, err = tx.SetContains(ctx, KeyVotedWallets, address)
		return err
	})
	if err != nil {
		return false, storeFailure("check vote status", err)
	}
	return voted, nil
}

// SubmitVote records one vote for optionID from address. Checks run in order
// and the first failure wins: missing input, closed round, unknown option,
// duplicate wallet. The tally increment and the voted-set insertion commit
// together or not at all.
func (s *Service) SubmitVote(ctx context.Context, address, optionID string) (models.Round, error) {
	if address == "" || optionID == "" {
		return models.Round{}, ErrInvalidRequest
	}

	var updated models.Round
	err := s.store.Update(ctx, func(tx store.Tx) error {
		round, err := s.loadRound(ctx, tx)
		if err != nil {
			return err
		}

		if !round.IsOpen(s.now()) {
			return ErrRoundClosed
		}

		idx := round.Option(optionID)
		if idx < 0 {
			return ErrUnknownOption
		}

		voted, err := tx.SetContains(ctx, KeyVotedWallets, address)
		if err != nil {
			return err
		}
		if voted {
			return ErrDuplicateVote
		}

		round.Options[idx].Votes++
		round.TotalVotes++
		if err := tx.Set(ctx, KeyRound, round); err != nil {
			return err
		}

		added, err := tx.SetAdd(ctx, KeyVotedWallets, address)
		if err != nil {
			return err
		}
		if !added {
			return ErrDuplicateVote
		}

		updated = round
		return nil
	})
	if err != nil {
		return models.Round{}, storeFailure("record vote", err)
	}

	slog.Info("vote recorded",
		"round_id", updated.ID,
		"option_id", optionID,
		"total_votes", updated.TotalVotes,
	)
	return updated, nil
}

// History returns archived rounds, most recent first
func (s *Service) History(ctx context.Context) ([]models.HistoryEntry, error) {
	history := []models.HistoryEntry{}
	err := s.store.View(ctx, func(tx store.Tx) error {
		return tx.Get(ctx, KeyHistory, &history)
	})
	if errors.Is(err, store.ErrNotFound) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, storeFailure("load history", err)
	}
	return history, nil
}

// CloseRound ends the current round early
func (s *Service) CloseRound(ctx context.Context) (models.Round, error) {
	var round models.Round
	err := s.store.Update(ctx, func(tx store.Tx) error {
		var err error
		round, err = s.loadRound(ctx, tx)
		if err != nil {
			return err
		}
		round.IsActive = false
		return tx.Set(ctx, KeyRound, round)
	})
	if err != nil {
		return models.Round{}, storeFailure("close round", err)
	}

	slog.Info("round closed", "round_id", round.ID, "total_votes", round.TotalVotes)
	return round, nil
}

// NewRound describes the round that replaces the current one.
// Zero values fall back to the default question, options and duration.
type NewRound struct {
	Question string
	Options  []models.Option
	Duration time.Duration
	Payout   Payout
	// Force archives the current round even while it is still open
	Force bool
}

func (s *Service) buildRound(nr NewRound) (models.Round, error) {
	round := s.defaultRound()
	if nr.Question != "" {
		round.Question = nr.Question
	}
	if nr.Duration > 0 {
		round.EndTime = s.timestamp().Add(nr.Duration)
	}
	if len(nr.Options) == 0 {
		return round, nil
	}

	if len(nr.Options) < 2 {
		return models.Round{}, invalid("round must have at least 2 options")
	}
	seen := make(map[string]bool, len(nr.Options))
	options := make([]models.Option, 0, len(nr.Options))
	for _, opt := range nr.Options {
		if opt.ID == "" || opt.Label == "" {
			return models.Round{}, invalid("option id and label are required")
		}
		if seen[opt.ID] {
			return models.Round{}, invalid(fmt.Sprintf("duplicate option id: %s", opt.ID))
		}
		seen[opt.ID] = true
		options = append(options, models.Option{ID: opt.ID, Label: opt.Label, Color: opt.Color})
	}
	round.Options = options
	return round, nil
}

// StartNewRound archives the current round into history, clears the voted
// wallet set and installs a fresh round, all in one atomic update. The
// returned entry is nil when there was no round to archive.
func (s *Service) StartNewRound(ctx context.Context, nr NewRound) (*models.HistoryEntry, models.Round, error) {
	next, err := s.buildRound(nr)
	if err != nil {
		return nil, models.Round{}, err
	}

	var archived *models.HistoryEntry
	err = s.store.Update(ctx, func(tx store.Tx) error {
		var current models.Round
		err := tx.Get(ctx, KeyRound, &current)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// nothing to archive
		case err != nil:
			return err
		default:
			now := s.now()
			if current.IsOpen(now) && !nr.Force {
				return ErrRoundOpen
			}

			payout := nr.Payout
			if payout.Symbol == "" {
				payout.Symbol = s.tokenSymbol
			}
			entry := Archive(current, now, s.newID(), payout)

			history := []models.HistoryEntry{}
			if err := tx.Get(ctx, KeyHistory, &history); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			history = append([]models.HistoryEntry{entry}, history...)
			if err := tx.Set(ctx, KeyHistory, history); err != nil {
				return err
			}
			archived = &entry
		}

		if err := tx.SetClear(ctx, KeyVotedWallets); err != nil {
			return err
		}
		return tx.Set(ctx, KeyRound, next)
	})
	if err != nil {
		return nil, models.Round{}, storeFailure("start new round", err)
	}

	if archived != nil {
		slog.Info("round archived",
			"history_id", archived.ID,
			"result", archived.Result,
			"total_votes", archived.TotalVotes,
		)
	}
	slog.Info("round started", "round_id", next.ID, "end_time", next.EndTime)
	return archived, next, nil
}

// Init makes sure a round exists and returns it along with the history
func (s *Service) Init(ctx context.Context) (models.Round, []models.HistoryEntry, error) {
	round, err := s.GetRound(ctx)
	if err != nil {
		return models.Round{}, nil, err
	}
	history, err := s.History(ctx)
	if err != nil {
		return models.Round{}, nil, err
	}
	return round, history, nil
}

// Ping checks that the store is reachable
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return storeFailure("reach store", err)
	}
	return nil
}
