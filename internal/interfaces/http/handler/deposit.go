package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	donationapp "github.com/givebridge/backend/internal/application/donation"
)

// DepositHandler handles bank deposit webhook endpoints. The webhook is
// called by the bank and is authenticated by payload signature, not by the
// normal API auth.
type DepositHandler struct {
	BaseHandler
	intake *donationapp.DepositIntake
}

// NewDepositHandler creates a new DepositHandler
func NewDepositHandler(intake *donationapp.DepositIntake) *DepositHandler {
	return &DepositHandler{
		intake: intake,
	}
}

// HandleWebhook receives a deposit push notification from the bank.
// The X-Signature header carries the hex HMAC-SHA256 of the raw body.
func (h *DepositHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader("X-Signature")

	result, err := h.intake.Accept(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, donationapp.ErrInvalidSignature) {
			h.Unauthorized(c, "Invalid webhook signature")
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListUnmatched retrieves deposits awaiting manual reconciliation
func (h *DepositHandler) ListUnmatched(c *gin.Context) {
	var filter donationapp.UnmatchedListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.intake.ListUnmatched(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ResolveUnmatched marks an unmatched deposit as manually reconciled
func (h *DepositHandler) ResolveUnmatched(c *gin.Context) {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		h.BadRequest(c, "Transaction ID is required")
		return
	}

	resp, err := h.intake.ResolveUnmatched(c.Request.Context(), transactionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
