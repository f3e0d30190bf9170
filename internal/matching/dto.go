// internal/matching/dto.go

package matching

import (
	"time"

	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

// PartnerContact is shared only after both participants agree to reveal
type PartnerContact struct {
	Name  string `json:"name,omitempty"`
	Alias string `json:"alias,omitempty"`
	Email string `json:"email"`
}

// MatchSummary is what a registrant sees about their current match
type MatchSummary struct {
	MatchID           int64           `json:"match_id"`
	PartnerAlias      string          `json:"partner_alias"`
	Score             int             `json:"compatibility_score"`
	Reasons           []string        `json:"reasons"`
	ChatUnlocked      bool            `json:"chat_unlocked"`
	Revealed          bool            `json:"revealed"`
	MessagesRemaining int             `json:"messages_remaining"`
	Partner           *PartnerContact `json:"partner,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Suggestion is one ranked candidate for the admin console
type Suggestion struct {
	UserID int64  `json:"user_id"`
	Alias  string `json:"alias"`
	Result Result `json:"result"`
}

// ManualMatchRequest pairs two users by hand
type ManualMatchRequest struct {
	User1ID int64 `json:"user1_id" validate:"required,gt=0"`
	User2ID int64 `json:"user2_id" validate:"required,gt=0,nefield=User1ID"`
}

// ScoreRequest asks for a score between two users from User1's side
type ScoreRequest struct {
	User1ID int64 `json:"user1_id" validate:"required,gt=0"`
	User2ID int64 `json:"user2_id" validate:"required,gt=0,nefield=User1ID"`
}

// contactFor applies the partner's participation mode
func contactFor(c *profile.Contact) *PartnerContact {
	if c.ParticipationMode == profile.ModeFull {
		return &PartnerContact{Name: c.FullName, Email: c.Email}
	}
	return &PartnerContact{Alias: c.Alias, Email: c.Email}
}
