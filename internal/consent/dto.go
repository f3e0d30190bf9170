// internal/consent/dto.go

package consent

// SetConsentRequest toggles one flag for the caller
type SetConsentRequest struct {
	Consent *bool `json:"consent" validate:"required"`
}

// State is the caller's view of a match's consent
type State struct {
	MatchID       int64 `json:"match_id"`
	ChatConsent   bool  `json:"chat_consent"`
	RevealConsent bool  `json:"reveal_consent"`
	ChatUnlocked  bool  `json:"chat_unlocked"`
	Revealed      bool  `json:"revealed"`
}
