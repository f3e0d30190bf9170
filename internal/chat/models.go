// internal/chat/models.go

package chat

import "time"

// Message is one append-only chat line
type Message struct {
	ID        int64     `json:"id" db:"id"`
	MatchID   int64     `json:"match_id" db:"match_id"`
	SenderID  int64     `json:"sender_id" db:"sender_id"`
	Text      string    `json:"text" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Thread is the match a message is addressed to
type Thread struct {
	MatchID int64 `db:"id"`
	User1ID int64 `db:"user1_id"`
	User2ID int64 `db:"user2_id"`
	Active  bool  `db:"active"`
}

// Has reports whether userID is a participant
func (t *Thread) Has(userID int64) bool {
	return userID == t.User1ID || userID == t.User2ID
}

// PartnerOf returns the other participant
func (t *Thread) PartnerOf(userID int64) int64 {
	if userID == t.User1ID {
		return t.User2ID
	}
	return t.User1ID
}
