// internal/matching/models.go

package matching

import (
	"time"

	"github.com/lib/pq"

	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

// Source records who created a match
type Source string

const (
	SourceBatch Source = "batch"
	SourceAdmin Source = "admin"
)

// Match is one pairing of two registrants
type Match struct {
	ID             int64          `json:"id" db:"id"`
	User1ID        int64          `json:"user1_id" db:"user1_id"`
	User2ID        int64          `json:"user2_id" db:"user2_id"`
	Score          int            `json:"compatibility_score" db:"compatibility_score"`
	Reasons        pq.StringArray `json:"reasons" db:"reasons"`
	Source         Source         `json:"source" db:"source"`
	Active         bool           `json:"active" db:"active"`
	ChatUnlockedAt *time.Time     `json:"chat_unlocked_at,omitempty" db:"chat_unlocked_at"`
	RevealedAt     *time.Time     `json:"revealed_at,omitempty" db:"revealed_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	DeactivatedAt  *time.Time     `json:"deactivated_at,omitempty" db:"deactivated_at"`
}

// PartnerOf returns the other participant, or 0 if userID is not in the match
func (m *Match) PartnerOf(userID int64) int64 {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	default:
		return 0
	}
}

// Candidate is a registrant as the matcher sees them
type Candidate struct {
	ID        int64              `db:"id"`
	Email     string             `db:"email"`
	Alias     string             `db:"alias"`
	Status    profile.UserStatus `db:"status"`
	CreatedAt time.Time          `db:"created_at"`
	Profile   profile.Document   `db:"profile"`
}

// Pairing is a match about to be written
type Pairing struct {
	User1ID int64
	User2ID int64
	Score   int
	Reasons []string
	Source  Source
}

// MatchFlags is the live consent and quota state of one participant's view
type MatchFlags struct {
	ChatUnlocked bool `db:"chat_unlocked"`
	Revealed     bool `db:"revealed"`
	MessagesSent int  `db:"messages_sent"`
}

// MatchListing is a match row with both aliases, for the admin console
type MatchListing struct {
	Match
	User1Alias string `json:"user1_alias" db:"user1_alias"`
	User2Alias string `json:"user2_alias" db:"user2_alias"`
}

// RunReport summarizes one batch run
type RunReport struct {
	Matched    int           `json:"matched"`
	Considered int           `json:"considered"`
	Conflicts  int           `json:"conflicts"`
	Duration   time.Duration `json:"duration_ns"`
}
