// internal/consent/models.go

package consent

import "time"

// Field names one of the two consent flags a participant holds
type Field string

const (
	FieldChat   Field = "chat"
	FieldReveal Field = "reveal"
)

// column is the consents column backing the flag
func (f Field) column() string {
	if f == FieldReveal {
		return "consent_reveal"
	}
	return "consent_chat"
}

// unlockColumn is the matches timestamp set the first time both agree
func (f Field) unlockColumn() string {
	if f == FieldReveal {
		return "revealed_at"
	}
	return "chat_unlocked_at"
}

// Consent is one participant's flags for a match
type Consent struct {
	MatchID       int64     `json:"match_id" db:"match_id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	ConsentChat   bool      `json:"consent_chat" db:"consent_chat"`
	ConsentReveal bool      `json:"consent_reveal" db:"consent_reveal"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Participants are the two users a match was created for
type Participants struct {
	MatchID int64 `db:"id"`
	User1ID int64 `db:"user1_id"`
	User2ID int64 `db:"user2_id"`
	Active  bool  `db:"active"`
}

// Has reports whether userID is one of the two participants
func (p *Participants) Has(userID int64) bool {
	return userID == p.User1ID || userID == p.User2ID
}

// PartnerOf returns the other participant
func (p *Participants) PartnerOf(userID int64) int64 {
	if userID == p.User1ID {
		return p.User2ID
	}
	return p.User1ID
}

// Pair holds one flag for user1 (First) and user2 (Second)
type Pair struct {
	First  bool
	Second bool
}

// Both reports whether both participants agreed
func (p Pair) Both() bool {
	return p.First && p.Second
}
