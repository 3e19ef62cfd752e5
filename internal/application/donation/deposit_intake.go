package donation

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/partner"
	"github.com/givebridge/backend/internal/domain/shared"
)

// ErrInvalidSignature is returned when a webhook payload fails HMAC verification
var ErrInvalidSignature = errors.New("invalid webhook signature")

// DepositIntake accepts bank deposit push notifications, verifies their
// signature, resolves the owning organization, and publishes each deposit
// onto the event bus for the matcher to consume.
type DepositIntake struct {
	secret        []byte
	orgRepo       partner.OrganizationRepository
	unmatchedRepo donation.UnmatchedDepositRepository
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewDepositIntake creates a new DepositIntake. An empty secret disables
// signature verification; only do that in development.
func NewDepositIntake(
	secret string,
	orgRepo partner.OrganizationRepository,
	unmatchedRepo donation.UnmatchedDepositRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *DepositIntake {
	return &DepositIntake{
		secret:        []byte(secret),
		orgRepo:       orgRepo,
		unmatchedRepo: unmatchedRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// Accept verifies and ingests a raw webhook payload. The signature is the
// hex-encoded HMAC-SHA256 of the payload under the shared webhook secret.
// Deposits for accounts no organization owns are acknowledged but not
// published; the bank should not retry them.
func (s *DepositIntake) Accept(ctx context.Context, payload []byte, signature string) (*DepositIntakeResult, error) {
	if err := s.verifySignature(payload, signature); err != nil {
		return nil, err
	}

	var req DepositWebhookRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, shared.NewValidationError("Malformed deposit payload: " + err.Error())
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.OccurredAt.IsZero() {
		req.OccurredAt = time.Now()
	}

	org, err := s.orgRepo.FindByVirtualAccount(ctx, req.Bank, req.Account)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("deposit for unknown virtual account",
				zap.String("transaction_id", req.TransactionID),
				zap.String("bank", req.Bank),
				zap.String("account", req.Account),
				zap.String("amount", req.Amount.String()),
			)
			return &DepositIntakeResult{
				TransactionID: req.TransactionID,
				Accepted:      false,
				Message:       "no organization owns this account",
			}, nil
		}
		return nil, err
	}

	dep := donation.DepositEvent{
		TransactionID:  req.TransactionID,
		OrganizationID: org.ID,
		Account:        req.Account,
		Amount:         req.Amount,
		DepositorName:  req.DepositorName,
		Memo:           req.Memo,
		OccurredAt:     req.OccurredAt,
	}
	if err := s.publisher.Publish(ctx, donation.NewDepositReceivedEvent(dep)); err != nil {
		return nil, err
	}

	s.logger.Info("deposit notification accepted",
		zap.String("transaction_id", req.TransactionID),
		zap.String("organization_id", org.ID.String()),
		zap.String("amount", req.Amount.String()),
	)

	return &DepositIntakeResult{
		TransactionID:  req.TransactionID,
		OrganizationID: org.ID.String(),
		Accepted:       true,
	}, nil
}

// ListUnmatched returns deposits awaiting manual reconciliation
func (s *DepositIntake) ListUnmatched(ctx context.Context, filter UnmatchedListFilter) (shared.Paginated[UnmatchedDepositResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	page, err := s.unmatchedRepo.FindUnresolved(ctx, f)
	if err != nil {
		return shared.Paginated[UnmatchedDepositResponse]{}, err
	}

	return shared.Paginated[UnmatchedDepositResponse]{
		Items:      ToUnmatchedDepositResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// ResolveUnmatched marks an unmatched deposit as manually reconciled.
// The transaction ID is the bank's identifier, not our row ID, since that is
// what the operations team works from.
func (s *DepositIntake) ResolveUnmatched(ctx context.Context, transactionID string) (*UnmatchedDepositResponse, error) {
	u, err := s.unmatchedRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Unmatched deposit not found")
		}
		return nil, err
	}

	if err := u.Resolve(); err != nil {
		return nil, err
	}
	if err := s.unmatchedRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	resp := ToUnmatchedDepositResponse(u)
	return &resp, nil
}

func (s *DepositIntake) verifySignature(payload []byte, signature string) error {
	if len(s.secret) == 0 {
		return nil
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), expected) {
		return ErrInvalidSignature
	}
	return nil
}
