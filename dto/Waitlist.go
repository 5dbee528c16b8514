package dto

import "doodh-waitlist/model"

// SignupRequest is the contact-details form. It is held in memory only.
type SignupRequest struct {
	Name    string `json:"name"    validate:"notblank"`
	Email   string `json:"email"   validate:"notblank,waitlist_email"`
	Phone   string `json:"phone"   validate:"notblank,phone10"`   // any formatting, 10 digits once stripped
	Pincode string `json:"pincode" validate:"notblank,pincode"` // exactly 6 digits
	// RecaptchaToken is checked by the phone-auth provider, not by field validation
	RecaptchaToken string `json:"recaptcha_token"`
}

// FieldEditRequest updates one form field and clears its inline error
type FieldEditRequest struct {
	Field string `json:"field" validate:"required,oneof=name email phone pincode"`
	Value string `json:"value"`
}

// CellInputRequest is the raw value typed or pasted into one code cell
type CellInputRequest struct {
	Value string `json:"value"`
}

// VerifyCodeRequest optionally carries the whole code; it is pasted into the cells before submitting
type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// ResendCodeRequest needs a fresh bot-check token since providers reject replayed ones
type ResendCodeRequest struct {
	RecaptchaToken string `json:"recaptcha_token"`
}

// ChallengeExpiredRequest is posted by the page when the bot-check widget reports expiry
type ChallengeExpiredRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required,uuid"`
}

type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

type NoticeView struct {
	Kind    model.NoticeKind `json:"kind"`
	Message string           `json:"message"`
}

// WorkflowView is everything the page needs to render the signup card
type WorkflowView struct {
	State       model.WorkflowState `json:"state"`
	Details     SignupDetailsView   `json:"details"`
	Errors      map[string]string   `json:"errors"`
	MaskedPhone string              `json:"masked_phone,omitempty"`
	ChallengeID string              `json:"challenge_id,omitempty"`
	Cells       []string            `json:"cells,omitempty"`
	Focus       int                 `json:"focus"`
	InFlight    bool                `json:"in_flight"`
	CanSend     bool                `json:"can_send"`
	CanVerify   bool                `json:"can_verify"`
	Notices     []NoticeView        `json:"notices"`
}

type SignupDetailsView struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Pincode string `json:"pincode"`
}

type SessionCreatedResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // seconds
	View      WorkflowView `json:"view"`
}

type CodeSentResponse struct {
	ChallengeID string       `json:"challenge_id"`
	View        WorkflowView `json:"view"`
}

type VerifiedResponse struct {
	UID         string       `json:"uid"`
	PhoneNumber string       `json:"phone_number"`
	View        WorkflowView `json:"view"`
}
