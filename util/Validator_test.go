package util

import (
	"testing"

	"doodh-waitlist/dto"

	"github.com/stretchr/testify/assert"
)

func TestValidateSignup(t *testing.T) {
	valid := dto.SignupRequest{Name: "Asha", Email: "asha@example.com", Phone: "98765 43210", Pincode: "560001"}

	tests := []struct {
		name  string
		edit  func(r *dto.SignupRequest)
		field string
		want  string
	}{
		{"blank name", func(r *dto.SignupRequest) { r.Name = "   " }, "name", "Name is required"},
		{"missing email", func(r *dto.SignupRequest) { r.Email = "" }, "email", "Email is required"},
		{"email without tld", func(r *dto.SignupRequest) { r.Email = "asha@example" }, "email", "Please enter a valid email"},
		{"email with space", func(r *dto.SignupRequest) { r.Email = "asha rao@example.com" }, "email", "Please enter a valid email"},
		{"missing phone", func(r *dto.SignupRequest) { r.Phone = "" }, "phone", "Phone number is required"},
		{"short phone", func(r *dto.SignupRequest) { r.Phone = "98765" }, "phone", "Please enter a valid 10-digit phone number"},
		{"long phone", func(r *dto.SignupRequest) { r.Phone = "+91 98765 43210" }, "phone", "Please enter a valid 10-digit phone number"},
		{"missing pincode", func(r *dto.SignupRequest) { r.Pincode = "" }, "pincode", "Pincode is required"},
		{"pincode letters", func(r *dto.SignupRequest) { r.Pincode = "56OO01" }, "pincode", "Please enter a valid 6-digit pincode"},
		{"pincode padded", func(r *dto.SignupRequest) { r.Pincode = " 560001" }, "pincode", "Please enter a valid 6-digit pincode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.edit(&req)

			errs := ValidateSignup(&req)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs[tt.field])
		})
	}
}

func TestValidateSignup_AcceptsFormattedPhone(t *testing.T) {
	for _, phone := range []string{"9876543210", "98765-43210", "(987) 654-3210"} {
		req := dto.SignupRequest{Name: "Asha", Email: "a@b.co", Phone: phone, Pincode: "560001"}
		assert.Empty(t, ValidateSignup(&req), phone)
	}
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(&dto.FieldEditRequest{Field: "email", Value: "x"}))
	assert.Error(t, ValidateStruct(&dto.FieldEditRequest{Field: "address"}))
	assert.Error(t, ValidateStruct(&dto.ChallengeExpiredRequest{ChallengeID: "not-a-uuid"}))
}
