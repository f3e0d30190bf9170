// internal/admin/models.go

package admin

import "time"

// Stats is the admin dashboard summary
type Stats struct {
	Registrants  RegistrantStats `json:"registrants"`
	Payments     PaymentStats    `json:"payments"`
	Matches      MatchStats      `json:"matches"`
	MessagesSent int64           `json:"messages_sent"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// RegistrantStats counts users by lifecycle status
type RegistrantStats struct {
	Total               int64 `json:"total" db:"total"`
	PendingVerification int64 `json:"pending_verification" db:"pending_verification"`
	Waiting             int64 `json:"waiting" db:"waiting"`
	Matched             int64 `json:"matched" db:"matched"`
}

// PaymentStats counts payment proofs by review state
type PaymentStats struct {
	Pending  int64 `json:"pending" db:"pending"`
	Verified int64 `json:"verified" db:"verified"`
	Rejected int64 `json:"rejected" db:"rejected"`
}

// MatchStats summarizes matches and how far they progressed
type MatchStats struct {
	Total                int64   `json:"total" db:"total"`
	Active               int64   `json:"active" db:"active"`
	ChatUnlocked         int64   `json:"chat_unlocked" db:"chat_unlocked"`
	Revealed             int64   `json:"revealed" db:"revealed"`
	AverageCompatibility float64 `json:"average_compatibility" db:"average_compatibility"`
}
