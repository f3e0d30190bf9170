// internal/profile/dto.go

package profile

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Email             string            `json:"email" validate:"required,email,max=255"`
	FullName          string            `json:"full_name" validate:"required,min=2,max=150"`
	Alias             string            `json:"alias,omitempty" validate:"omitempty,min=3,max=60"`
	Phone             string            `json:"phone,omitempty" validate:"omitempty,e164"`
	ParticipationMode ParticipationMode `json:"participation_mode" validate:"required,oneof=full anonymous"`
	PaymentReference  string            `json:"payment_reference" validate:"required,max=100"`
	Profile           Document          `json:"profile"`
}

// UpdateProfileRequest replaces the matchable document
type UpdateProfileRequest struct {
	Profile Document `json:"profile"`
}

// PaymentDecisionRequest is an admin verdict on a payment proof
type PaymentDecisionRequest struct {
	Status PaymentStatus `json:"status" validate:"required,oneof=verified rejected pending"`
}

// ProfileResponse is what a registrant sees about themselves
type ProfileResponse struct {
	User    *User    `json:"user"`
	Profile *Profile `json:"profile"`
}
