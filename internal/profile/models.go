// internal/profile/models.go

package profile

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// UserStatus tracks where a registrant is in the matching lifecycle
type UserStatus string

const (
	StatusPendingVerification UserStatus = "pending_verification"
	StatusWaiting             UserStatus = "waiting"
	StatusMatched             UserStatus = "matched"
)

// ParticipationMode decides what a partner learns on reveal
type ParticipationMode string

const (
	ModeFull      ParticipationMode = "full"
	ModeAnonymous ParticipationMode = "anonymous"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
)

// NoPreference is the sentinel for an unset preference
const NoPreference = "Any"

// User is one registrant
type User struct {
	ID                int64             `json:"id" db:"id"`
	Email             string            `json:"email" db:"email"`
	FullName          string            `json:"full_name" db:"full_name"`
	Alias             string            `json:"alias" db:"alias"`
	Phone             *string           `json:"phone,omitempty" db:"phone"`
	ParticipationMode ParticipationMode `json:"participation_mode" db:"participation_mode"`
	Status            UserStatus        `json:"status" db:"status"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// Preferences are what a registrant is looking for; blank or "Any" matches everything
type Preferences struct {
	College   string `json:"college,omitempty"`
	Course    string `json:"course,omitempty"`
	YearLevel string `json:"year_level,omitempty"`
	Identity  string `json:"identity,omitempty"`
}

type Personality struct {
	MBTI          string `json:"mbti,omitempty"`
	SunSign       string `json:"sun_sign,omitempty"`
	SocialBattery string `json:"social_battery,omitempty"`
}

type SOGIESC struct {
	Orientation        string `json:"orientation,omitempty"`
	GenderIdentity     string `json:"gender_identity,omitempty"`
	GenderExpression   string `json:"gender_expression,omitempty"`
	SexCharacteristics string `json:"sex_characteristics,omitempty"`
	Pronouns           string `json:"pronouns,omitempty"`
}

// Document is the matchable profile, stored as JSONB in user_profiles.profile
type Document struct {
	College             string      `json:"college,omitempty" validate:"max=120"`
	Course              string      `json:"course,omitempty" validate:"max=120"`
	YearLevel           string      `json:"year_level,omitempty" validate:"max=30"`
	Interests           []string    `json:"interests" validate:"max=30,dive,min=1,max=60"`
	Preferred           Preferences `json:"preferred"`
	Personality         Personality `json:"personality"`
	SOGIESC             SOGIESC     `json:"sogiesc"`
	LoveLanguageReceive []string    `json:"love_language_receive" validate:"max=5"`
	LoveLanguageProvide []string    `json:"love_language_provide" validate:"max=5"`
}

// Value implements driver.Valuer so a Document can be written to a JSONB column
func (d Document) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB columns
func (d *Document) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = Document{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("profile document: unsupported column type")
	}
	return json.Unmarshal(raw, d)
}

// IsOpen reports whether a preference value accepts anything
func IsOpen(pref string) bool {
	p := strings.TrimSpace(pref)
	return p == "" || strings.EqualFold(p, NoPreference) || strings.EqualFold(p, "no preference")
}

// Profile is the user_profiles row
type Profile struct {
	UserID             int64              `json:"user_id" db:"user_id"`
	Document           Document           `json:"profile" db:"profile"`
	PaymentReference   string             `json:"payment_reference" db:"payment_reference"`
	PaymentProofURL    *string            `json:"payment_proof_url,omitempty" db:"payment_proof_url"`
	PaymentStatus      PaymentStatus      `json:"payment_status" db:"payment_status"`
	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

// Registrant joins a user with their profile row, used by admin listings and the matcher
type Registrant struct {
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}

// Contact is what notifications and reveals need about a user
type Contact struct {
	UserID            int64             `db:"id"`
	Email             string            `db:"email"`
	FullName          string            `db:"full_name"`
	Alias             string            `db:"alias"`
	ParticipationMode ParticipationMode `db:"participation_mode"`
}
