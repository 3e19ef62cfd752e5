package donation

import (
	"strings"
)

// MatchStrategy selects which pending donation a deposit should confirm when
// several candidates share the organization and amount. Candidates are
// guaranteed non-empty, PENDING, and amount-equal to the deposit.
type MatchStrategy interface {
	// Name identifies the strategy in logs and configuration
	Name() string
	// Select picks one donation from the candidates, or nil if the strategy
	// cannot decide
	Select(deposit DepositEvent, candidates []*Donation) *Donation
}

// OldestPendingStrategy resolves ambiguity deterministically by picking the
// donation that has been waiting longest. This is the default strategy.
type OldestPendingStrategy struct{}

// NewOldestPendingStrategy creates the default match strategy
func NewOldestPendingStrategy() *OldestPendingStrategy {
	return &OldestPendingStrategy{}
}

// Name returns the strategy name
func (s *OldestPendingStrategy) Name() string {
	return "oldest_pending"
}

// Select returns the candidate with the earliest creation time. Ties on the
// timestamp fall back to the smallest ID so the result stays deterministic.
func (s *OldestPendingStrategy) Select(_ DepositEvent, candidates []*Donation) *Donation {
	if len(candidates) == 0 {
		return nil
	}
	oldest := candidates[0]
	for _, c := range candidates[1:] {
		if c.CreatedAt.Before(oldest.CreatedAt) {
			oldest = c
			continue
		}
		if c.CreatedAt.Equal(oldest.CreatedAt) && c.ID.String() < oldest.ID.String() {
			oldest = c
		}
	}
	return oldest
}

var _ MatchStrategy = (*OldestPendingStrategy)(nil)

// MemoCodeStrategy matches a deposit by the payment code the donor included in
// the transfer memo. Falls back to the wrapped strategy when the memo carries
// no known code.
type MemoCodeStrategy struct {
	fallback MatchStrategy
}

// NewMemoCodeStrategy creates a memo-code strategy with the given fallback
func NewMemoCodeStrategy(fallback MatchStrategy) *MemoCodeStrategy {
	if fallback == nil {
		fallback = NewOldestPendingStrategy()
	}
	return &MemoCodeStrategy{fallback: fallback}
}

// Name returns the strategy name
func (s *MemoCodeStrategy) Name() string {
	return "memo_code"
}

// Select looks for a candidate whose payment code appears in the deposit memo
func (s *MemoCodeStrategy) Select(deposit DepositEvent, candidates []*Donation) *Donation {
	memo := strings.ToUpper(deposit.Memo)
	if memo != "" {
		for _, c := range candidates {
			if c.PaymentCode != "" && strings.Contains(memo, c.PaymentCode) {
				return c
			}
		}
	}
	return s.fallback.Select(deposit, candidates)
}

var _ MatchStrategy = (*MemoCodeStrategy)(nil)
