package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// PhoneSignIn is the result of a confirmed phone sign-in
type PhoneSignIn struct {
	LocalID     string
	IDToken     string
	PhoneNumber string
	IsNewUser   bool
}

// PhoneVerifier is the Identity Toolkit surface the Firebase provider uses
type PhoneVerifier interface {
	SendVerificationCode(ctx context.Context, phoneNumber, recaptchaToken string) (sessionInfo string, err error)
	VerifyPhoneNumber(ctx context.Context, sessionInfo, code string) (*PhoneSignIn, error)
}

// UserLookup is satisfied by *auth.Client
type UserLookup interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// FirebaseProvider delivers and confirms codes through Firebase phone auth
type FirebaseProvider struct {
	*ChallengeRegistry
	verifier PhoneVerifier
	users    UserLookup
	logger   *zap.Logger
}

// NewFirebaseProvider wires the provider. users may be nil when no admin
// credentials are configured.
func NewFirebaseProvider(registry *ChallengeRegistry, verifier PhoneVerifier, users UserLookup, logger *zap.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		ChallengeRegistry: registry,
		verifier:          verifier,
		users:             users,
		logger:            logger,
	}
}

func (p *FirebaseProvider) SendCode(ctx context.Context, phoneNumber string, challenge *Challenge) (Confirmation, error) {
	token, err := challenge.Consume()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChallengeRejected, err)
	}

	sessionInfo, err := p.verifier.SendVerificationCode(ctx, phoneNumber, token)
	if err != nil {
		return nil, err
	}

	p.logger.Info("firebase verification code sent", zap.String("challenge_id", challenge.ID()))
	return &firebaseConfirmation{provider: p, sessionInfo: sessionInfo, phoneNumber: phoneNumber}, nil
}

type firebaseConfirmation struct {
	provider    *FirebaseProvider
	sessionInfo string
	phoneNumber string
}

func (c *firebaseConfirmation) Confirm(ctx context.Context, code string) (*UserRecord, error) {
	signIn, err := c.provider.verifier.VerifyPhoneNumber(ctx, c.sessionInfo, code)
	if err != nil {
		return nil, err
	}

	record := &UserRecord{
		UID:         signIn.LocalID,
		PhoneNumber: signIn.PhoneNumber,
		IsNewUser:   signIn.IsNewUser,
		IDToken:     signIn.IDToken,
	}
	if record.PhoneNumber == "" {
		record.PhoneNumber = c.phoneNumber
	}

	if c.provider.users != nil && record.UID != "" {
		u, err := c.provider.users.GetUser(ctx, record.UID)
		if err != nil {
			// the phone is verified either way
			c.provider.logger.Warn("firebase user lookup failed", zap.String("uid", record.UID), zap.Error(err))
		} else if u.UserInfo != nil {
			record.DisplayName = u.DisplayName
			record.Email = u.Email
		}
	}

	return record, nil
}

// identityToolkitClient calls the relyingparty phone endpoints with the web API key
type identityToolkitClient struct {
	svc *identitytoolkit.Service
}

// NewIdentityToolkitClient authenticates with the web API key; extra options
// (an endpoint override, say) are passed through to the service
func NewIdentityToolkitClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (PhoneVerifier, error) {
	svc, err := identitytoolkit.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create identity toolkit service: %w", err)
	}
	return &identityToolkitClient{svc: svc}, nil
}

func (c *identityToolkitClient) SendVerificationCode(ctx context.Context, phoneNumber, recaptchaToken string) (string, error) {
	resp, err := c.svc.Relyingparty.SendVerificationCode(&identitytoolkit.IdentitytoolkitRelyingpartySendVerificationCodeRequest{
		PhoneNumber:    phoneNumber,
		RecaptchaToken: recaptchaToken,
	}).Context(ctx).Do()
	if err != nil {
		return "", MapFirebaseError(err)
	}
	return resp.SessionInfo, nil
}

func (c *identityToolkitClient) VerifyPhoneNumber(ctx context.Context, sessionInfo, code string) (*PhoneSignIn, error) {
	resp, err := c.svc.Relyingparty.VerifyPhoneNumber(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPhoneNumberRequest{
		SessionInfo: sessionInfo,
		Code:        code,
	}).Context(ctx).Do()
	if err != nil {
		return nil, MapFirebaseError(err)
	}
	return &PhoneSignIn{
		LocalID:     resp.LocalId,
		IDToken:     resp.IdToken,
		PhoneNumber: resp.PhoneNumber,
		IsNewUser:   resp.IsNewUser,
	}, nil
}

var firebaseErrorCodes = []struct {
	code string
	err  error
}{
	{"INVALID_CODE", ErrInvalidCode},
	{"SESSION_EXPIRED", ErrCodeExpired},
	{"CODE_EXPIRED", ErrCodeExpired},
	{"INVALID_SESSION_INFO", ErrCodeExpired},
	{"CAPTCHA_CHECK_FAILED", ErrChallengeRejected},
	{"MISSING_RECAPTCHA_TOKEN", ErrChallengeRejected},
	{"INVALID_RECAPTCHA_TOKEN", ErrChallengeRejected},
	{"INVALID_PHONE_NUMBER", ErrInvalidPhone},
	{"MISSING_PHONE_NUMBER", ErrInvalidPhone},
	{"TOO_MANY_ATTEMPTS_TRY_LATER", ErrQuotaExceeded},
	{"QUOTA_EXCEEDED", ErrQuotaExceeded},
}

// MapFirebaseError turns an Identity Toolkit error message such as
// "INVALID_CODE" or "TOO_MANY_ATTEMPTS_TRY_LATER : ..." into a provider sentinel
func MapFirebaseError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	messages := []string{gerr.Message}
	for _, item := range gerr.Errors {
		messages = append(messages, item.Message, item.Reason)
	}

	for _, msg := range messages {
		for _, known := range firebaseErrorCodes {
			if strings.HasPrefix(strings.TrimSpace(msg), known.code) {
				return fmt.Errorf("%w: %s", known.err, gerr.Message)
			}
		}
	}
	return err
}
