package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConversionEvent is one reported, payable action from an offer network.
// Events are append-only; the identity key is the dedupe boundary.
type ConversionEvent struct {
	ConversionID  string            `json:"conversion_id"`
	Provider      string            `json:"provider"`
	TransactionID string            `json:"transaction_id"`
	UserID        string            `json:"user_id"`
	ProjectID     string            `json:"project_id,omitempty"`
	Payout        decimal.Decimal   `json:"payout"`
	RawParams     map[string]string `json:"raw_params,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// IdentityKey returns the idempotency key for a conversion. A provider
// retrying the same postback produces the same key.
func (c *ConversionEvent) IdentityKey() string {
	return fmt.Sprintf("%s:%s", c.Provider, c.TransactionID)
}

// ConversionReceipt is what the ledger reports back to the postback caller.
type ConversionReceipt struct {
	Accepted    bool `json:"ok"`
	Duplicated  bool `json:"duplicated"`
	FullyFunded bool `json:"fully_funded,omitempty"`
}
