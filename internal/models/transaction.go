package models

import "time"

type TransactionType string

const (
	TxnEarn  TransactionType = "earn"
	TxnSpend TransactionType = "spend"
)

// Purpose is the business reason a transaction was created. It drives the
// uniqueness rules: earn transactions for content_view and content_save are
// one-per-(user, content).
type Purpose string

const (
	PurposeContentView    Purpose = "content_view"
	PurposeContentSave    Purpose = "content_save"
	PurposeContentShare   Purpose = "content_share"
	PurposePremiumContent Purpose = "premium_content"
	PurposeEventReg       Purpose = "event_registration"
	PurposeOther          Purpose = "other"
)

// CreditTransaction is one immutable ledger row. Amount is always positive;
// direction comes from Type.
type CreditTransaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Purpose     Purpose         `json:"purpose"`
	ContentID   *string         `json:"content_id,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
