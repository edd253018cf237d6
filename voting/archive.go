// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/cycle-vote/models"
)

// HistoryDateLayout is the display format of HistoryEntry.Date
const HistoryDateLayout = "2006-01-02 15:04"

// Payout describes what happened on-chain after a round concluded
type Payout struct {
	Amount int64  // whole tokens burned, 0 for none
	Symbol string // token ticker, e.g. CYCLE
	TxID   string
}

// Archive snapshots the final tallies of r. It has no side effects.
func Archive(r models.Round, at time.Time, id string, p Payout) models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:         id,
		Date:       at.UTC().Format(HistoryDateLayout),
		Question:   r.Question,
		BurnAmount: formatBurn(p),
		TxID:       models.NoneSentinel,
		TotalVotes: r.TotalVotes,
		Options:    make([]models.HistoryOption, 0, len(r.Options)),
	}
	if p.TxID != "" {
		entry.TxID = p.TxID
	}

	winner := -1
	for i, opt := range r.Options {
		// strict comparison keeps the first option on ties
		if winner < 0 || opt.Votes > r.Options[winner].Votes {
			winner = i
		}
		entry.Options = append(entry.Options, models.HistoryOption{
			Label:      opt.Label,
			Votes:      opt.Votes,
			Percentage: percentage(opt.Votes, r.TotalVotes),
		})
	}
	if winner >= 0 {
		entry.WinningOption = r.Options[winner].Label
		entry.Result = strings.ToUpper(r.Options[winner].ID)
	}

	return entry
}

// percentage rounds to one decimal place; zero total yields 0
func percentage(votes, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)*1000/float64(total)) / 10
}

func formatBurn(p Payout) string {
	if p.Amount <= 0 {
		return models.NoneSentinel
	}
	amount := humanize.Comma(p.Amount)
	if p.Symbol == "" {
		return amount
	}
	return amount + " $" + p.Symbol
}
