package domain

import "time"

// User carries profile data plus the loyalty balance. The balance is
// only ever changed through atomic increments in storage.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	DietPreference string    `json:"dietPreference,omitempty"`
	NanoPoints     int64     `json:"nanoPoints"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LedgerReason tags a loyalty point delta.
type LedgerReason string

const (
	LedgerEarned   LedgerReason = "earned"
	LedgerRedeemed LedgerReason = "redeemed"
	LedgerExpired  LedgerReason = "expired"
	LedgerBonus    LedgerReason = "bonus"
)

// LedgerEntry is one append-only loyalty point delta.
type LedgerEntry struct {
	ID        string       `json:"id"`
	UserID    string       `json:"-"`
	Delta     int64        `json:"delta"`
	Reason    LedgerReason `json:"reason"`
	OrderID   string       `json:"orderId,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}
