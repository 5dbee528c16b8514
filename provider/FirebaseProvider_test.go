package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type fakeVerifier struct {
	phones    []string
	tokens    []string
	sendErr   error
	verifyErr error
}

func (v *fakeVerifier) SendVerificationCode(_ context.Context, phoneNumber, recaptchaToken string) (string, error) {
	if v.sendErr != nil {
		return "", v.sendErr
	}
	v.phones = append(v.phones, phoneNumber)
	v.tokens = append(v.tokens, recaptchaToken)
	return "session-info-1", nil
}

func (v *fakeVerifier) VerifyPhoneNumber(_ context.Context, sessionInfo, code string) (*PhoneSignIn, error) {
	if v.verifyErr != nil {
		return nil, v.verifyErr
	}
	if sessionInfo != "session-info-1" || code != "654321" {
		return nil, ErrInvalidCode
	}
	return &PhoneSignIn{LocalID: "fb-uid", IDToken: "id-token", IsNewUser: true}, nil
}

type fakeUsers struct {
	err error
}

func (u *fakeUsers) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	if u.err != nil {
		return nil, u.err
	}
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid, DisplayName: "Asha", Email: "asha@example.com"}}, nil
}

func sendWithFirebase(t *testing.T, p *FirebaseProvider) (Confirmation, error) {
	t.Helper()
	c, err := p.CreateChallenge("mount", ChallengeOptions{Token: "recaptcha-token"})
	require.NoError(t, err)
	defer c.Clear()
	return p.SendCode(context.Background(), "+919876543210", c)
}

func TestFirebaseProvider_SendAndConfirm(t *testing.T) {
	v := &fakeVerifier{}
	p := NewFirebaseProvider(NewChallengeRegistry(0), v, &fakeUsers{}, zap.NewNop())

	conf, err := sendWithFirebase(t, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"recaptcha-token"}, v.tokens)

	user, err := conf.Confirm(context.Background(), "654321")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid", user.UID)
	assert.Equal(t, "+919876543210", user.PhoneNumber, "falls back to the number the code went to")
	assert.Equal(t, "Asha", user.DisplayName)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.True(t, user.IsNewUser)
}

func TestFirebaseProvider_LookupFailureStillVerifies(t *testing.T) {
	p := NewFirebaseProvider(NewChallengeRegistry(0), &fakeVerifier{}, &fakeUsers{err: errors.New("no creds")}, zap.NewNop())

	conf, err := sendWithFirebase(t, p)
	require.NoError(t, err)
	user, err := conf.Confirm(context.Background(), "654321")
	require.NoError(t, err)
	assert.Empty(t, user.DisplayName)
}

func TestFirebaseProvider_ErrorsPassThrough(t *testing.T) {
	v := &fakeVerifier{sendErr: ErrQuotaExceeded}
	p := NewFirebaseProvider(NewChallengeRegistry(0), v, nil, zap.NewNop())

	_, err := sendWithFirebase(t, p)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	v.sendErr = nil
	v.verifyErr = ErrCodeExpired
	conf, err := sendWithFirebase(t, p)
	require.NoError(t, err)
	_, err = conf.Confirm(context.Background(), "654321")
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestMapFirebaseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid code", &googleapi.Error{Code: 400, Message: "INVALID_CODE"}, ErrInvalidCode},
		{"session expired", &googleapi.Error{Code: 400, Message: "SESSION_EXPIRED"}, ErrCodeExpired},
		{"message with detail", &googleapi.Error{Code: 400, Message: "TOO_MANY_ATTEMPTS_TRY_LATER : Try again later."}, ErrQuotaExceeded},
		{"captcha", &googleapi.Error{Code: 400, Message: "CAPTCHA_CHECK_FAILED"}, ErrChallengeRejected},
		{"phone", &googleapi.Error{Code: 400, Message: "INVALID_PHONE_NUMBER : TOO_SHORT"}, ErrInvalidPhone},
		{
			"code in error items",
			&googleapi.Error{Code: 400, Message: "Bad Request", Errors: []googleapi.ErrorItem{{Reason: "invalid", Message: "CODE_EXPIRED"}}},
			ErrCodeExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapFirebaseError(tt.err), tt.want)
		})
	}

	plain := errors.New("dial tcp: timeout")
	assert.Same(t, plain, MapFirebaseError(plain))

	unknown := &googleapi.Error{Code: 500, Message: "INTERNAL"}
	assert.Equal(t, error(unknown), MapFirebaseError(unknown))
}

func TestIdentityToolkitClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/sendVerificationCode"):
			assert.Equal(t, "+919876543210", body["phoneNumber"])
			assert.Equal(t, "recaptcha-token", body["recaptchaToken"])
			_, _ = w.Write([]byte(`{"sessionInfo":"session-info-1"}`))
		case strings.HasSuffix(r.URL.Path, "/verifyPhoneNumber") && body["code"] == "654321":
			_, _ = w.Write([]byte(`{"localId":"fb-uid","idToken":"id-token","phoneNumber":"+919876543210","isNewUser":true}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_CODE","errors":[{"message":"INVALID_CODE","domain":"global","reason":"invalid"}]}}`))
		}
	}))
	defer srv.Close()

	client, err := NewIdentityToolkitClient(context.Background(), "web-key", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	sessionInfo, err := client.SendVerificationCode(context.Background(), "+919876543210", "recaptcha-token")
	require.NoError(t, err)
	assert.Equal(t, "session-info-1", sessionInfo)

	signIn, err := client.VerifyPhoneNumber(context.Background(), sessionInfo, "654321")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid", signIn.LocalID)
	assert.True(t, signIn.IsNewUser)

	_, err = client.VerifyPhoneNumber(context.Background(), sessionInfo, "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
}
