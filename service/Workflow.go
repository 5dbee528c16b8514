package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"doodh-waitlist/dto"
	"doodh-waitlist/model"
	"doodh-waitlist/provider"
	"doodh-waitlist/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgSendFailed       = "Failed to send OTP. Please try again."
	msgResent           = "OTP resent successfully!"
	msgIncomplete       = "Please enter complete OTP"
	msgInvalidCode      = "Invalid OTP. Please check the code and try again."
	msgCodeExpired      = "OTP has expired. Please request a new one."
	msgVerifyFailed     = "Verification failed. Please try again."
	msgChallengeExpired = "reCAPTCHA expired. Please try again."
	msgChallengeFailed  = "reCAPTCHA verification failed. Please try again."
	msgTooManyAttempts  = "Too many attempts. Please try again later."
	msgInvalidPhone     = "Please enter a valid 10-digit phone number"
)

type WorkflowConfig struct {
	CountryCode  string
	AppName      string
	MountPrefix  string
	ChallengeTTL time.Duration
}

// VerificationSession exists while the code-entry view is shown
type VerificationSession struct {
	ID             string
	PhoneNumber    string // E.164
	NationalNumber string
	ChallengeID    string
	Cells          CodeCells

	confirmation provider.Confirmation
}

// Workflow is one visitor's pass through the signup card:
// details -> send code -> enter code -> verify.
//
// Provider calls run without the lock held. Each send carries an attempt
// number and each verify the session it belongs to; a result that comes back
// after the visitor cancelled, resent or left is dropped with ErrStaleResult.
type Workflow struct {
	id       string
	cfg      WorkflowConfig
	provider provider.PhoneAuthProvider
	enroller Enroller
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     model.WorkflowState
	details   dto.SignupRequest
	errors    util.ValidationErrors
	challenge *provider.Challenge
	session   *VerificationSession
	inFlight  bool
	attempt   uint64
	notices   []dto.NoticeView
	closed    bool
	observers []func(from, to model.WorkflowState)
}

// NewWorkflow starts a workflow in CollectingDetails. A nil enroller only logs enrollments.
func NewWorkflow(p provider.PhoneAuthProvider, enroller Enroller, cfg WorkflowConfig, logger *zap.Logger) *Workflow {
	if cfg.MountPrefix == "" {
		cfg.MountPrefix = "recaptcha-container"
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("workflow_id", id))
	if enroller == nil {
		enroller = NewLogEnroller(logger)
	}
	return &Workflow{
		id:       id,
		cfg:      cfg,
		provider: p,
		enroller: enroller,
		logger:   logger,
		now:      time.Now,
		state:    model.StateCollectingDetails,
		errors:   util.ValidationErrors{},
	}
}

func (w *Workflow) ID() string { return w.id }

// OnTransition registers fn to be called on every state change.
// fn runs with the workflow locked and must not call back into it.
func (w *Workflow) OnTransition(fn func(from, to model.WorkflowState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers = append(w.observers, fn)
}

func (w *Workflow) State() model.WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) HasSession() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session != nil
}

// Validate is the pure field check, usable without touching workflow state
func (w *Workflow) Validate(req dto.SignupRequest) util.ValidationErrors {
	return util.ValidateSignup(&req)
}

// EditField stores a form edit and clears only that field's error
func (w *Workflow) EditField(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.usable(); err != nil {
		return err
	}
	if w.state != model.StateCollectingDetails {
		return ErrWrongState
	}

	switch field {
	case "name":
		w.details.Name = value
	case "email":
		w.details.Email = value
	case "phone":
		w.details.Phone = value
	case "pincode":
		w.details.Pincode = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	delete(w.errors, field)
	return nil
}

// RequestCode validates the form, renders a fresh bot-check and asks the
// provider to text a code. It returns the id of the challenge used.
func (w *Workflow) RequestCode(ctx context.Context, req dto.SignupRequest) (string, error) {
	w.mu.Lock()
	if err := w.usable(); err != nil {
		w.mu.Unlock()
		return "", err
	}
	if w.inFlight {
		w.mu.Unlock()
		return "", ErrBusy
	}
	if w.state != model.StateCollectingDetails {
		w.mu.Unlock()
		return "", ErrWrongState
	}

	w.details = req
	if errs := util.ValidateSignup(&req); len(errs) > 0 {
		w.errors = errs
		w.mu.Unlock()
		return "", &ValidationError{Errors: errs}
	}
	w.errors = util.ValidationErrors{}

	challenge, err := w.renderChallenge(req.RecaptchaToken)
	if err != nil {
		w.notify(model.NoticeError, msgSendFailed)
		w.mu.Unlock()
		w.logger.Warn("bot-check setup failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrChallengeSetup, err)
	}

	w.attempt++
	attempt := w.attempt
	w.inFlight = true
	w.transition(model.StateSendingCode)
	phone := util.E164(w.cfg.CountryCode, req.Phone)
	w.mu.Unlock()

	confirmation, sendErr := w.provider.SendCode(ctx, phone, challenge)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || attempt != w.attempt {
		w.logger.Info("discarding stale send result", zap.Uint64("attempt", attempt))
		return "", ErrStaleResult
	}
	w.inFlight = false

	if sendErr != nil {
		w.clearChallenge()
		w.transition(model.StateCollectingDetails)
		w.notify(model.NoticeError, sendFailureMessage(sendErr))
		w.logger.Warn("code send failed", zap.Error(sendErr))
		return "", fmt.Errorf("%w: %w", ErrSend, sendErr)
	}

	w.session = &VerificationSession{
		ID:             uuid.NewString(),
		PhoneNumber:    phone,
		NationalNumber: util.DigitsOnly(req.Phone),
		ChallengeID:    challenge.ID(),
		confirmation:   confirmation,
	}
	w.transition(model.StateAwaitingCode)
	w.logger.Info("verification code sent", zap.String("challenge_id", challenge.ID()))
	return challenge.ID(), nil
}

// EnterCell applies one cell edit and returns the focused cell
func (w *Workflow) EnterCell(index int, value string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sess, err := w.editableSession()
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= CodeLength {
		return sess.Cells.Focus(), fmt.Errorf("cell index %d out of range", index)
	}
	return sess.Cells.Input(index, value), nil
}

// Backspace moves focus back from an empty cell
func (w *Workflow) Backspace(index int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sess, err := w.editableSession()
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= CodeLength {
		return sess.Cells.Focus(), fmt.Errorf("cell index %d out of range", index)
	}
	return sess.Cells.Backspace(index), nil
}

// EnterCode pastes a whole code into the cells
func (w *Workflow) EnterCode(code string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sess, err := w.editableSession()
	if err != nil {
		return err
	}
	if !sess.Cells.Paste(code) {
		return ErrIncompleteCode
	}
	return nil
}

// SubmitCode confirms the six entered digits. On success the form is reset
// and the verified entry is handed to the enroller.
func (w *Workflow) SubmitCode(ctx context.Context) (*provider.UserRecord, error) {
	w.mu.Lock()
	if err := w.usable(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if w.inFlight {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	if w.state != model.StateAwaitingCode || w.session == nil {
		w.mu.Unlock()
		return nil, ErrNoSession
	}

	sess := w.session
	if !sess.Cells.Complete() {
		w.notify(model.NoticeError, msgIncomplete)
		w.mu.Unlock()
		return nil, ErrIncompleteCode
	}

	code := sess.Cells.Code()
	w.inFlight = true
	w.transition(model.StateVerifyingCode)
	w.mu.Unlock()

	user, verifyErr := sess.confirmation.Confirm(ctx, code)

	w.mu.Lock()
	if w.closed || w.session != sess || w.state != model.StateVerifyingCode {
		w.mu.Unlock()
		w.logger.Info("discarding stale verify result", zap.String("session_id", sess.ID))
		return nil, ErrStaleResult
	}
	w.inFlight = false

	if verifyErr != nil {
		err := w.failVerify(verifyErr)
		w.mu.Unlock()
		w.logger.Warn("code verification failed", zap.Error(verifyErr))
		return nil, err
	}

	entry := w.complete(user)
	w.mu.Unlock()

	w.logger.Info("phone verified", zap.String("uid", user.UID))
	if err := w.enroller.Enroll(ctx, entry); err != nil {
		w.logger.Error("enrollment failed", zap.String("phone", entry.Phone), zap.Error(err))
	}
	return user, nil
}

// ResendCode re-issues a bot-check (never reusing the old one) and texts a new code
func (w *Workflow) ResendCode(ctx context.Context, recaptchaToken string) (string, error) {
	w.mu.Lock()
	if err := w.usable(); err != nil {
		w.mu.Unlock()
		return "", err
	}
	if w.inFlight {
		w.mu.Unlock()
		return "", ErrBusy
	}
	if w.state != model.StateAwaitingCode || w.session == nil {
		w.mu.Unlock()
		return "", ErrNoSession
	}

	sess := w.session
	challenge, err := w.renderChallenge(recaptchaToken)
	if err != nil {
		w.notify(model.NoticeError, msgSendFailed)
		w.mu.Unlock()
		w.logger.Warn("bot-check setup failed on resend", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrChallengeSetup, err)
	}
	// the old widget is gone; the new one is only shown once its code is out
	sess.ChallengeID = ""
	sess.Cells.Reset()

	w.attempt++
	attempt := w.attempt
	w.inFlight = true
	w.mu.Unlock()

	confirmation, sendErr := w.provider.SendCode(ctx, sess.PhoneNumber, challenge)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || attempt != w.attempt || w.session != sess {
		w.logger.Info("discarding stale resend result", zap.Uint64("attempt", attempt))
		return "", ErrStaleResult
	}
	w.inFlight = false

	if sendErr != nil {
		w.clearChallenge()
		w.notify(model.NoticeError, sendFailureMessage(sendErr))
		w.logger.Warn("code resend failed", zap.Error(sendErr))
		return "", fmt.Errorf("%w: %w", ErrSend, sendErr)
	}

	sess.ChallengeID = challenge.ID()
	sess.confirmation = confirmation
	w.notify(model.NoticeSuccess, msgResent)
	w.logger.Info("verification code resent", zap.String("challenge_id", challenge.ID()))
	return challenge.ID(), nil
}

// Cancel is "back to form": the session and bot-check go, the details stay.
// Calls already in flight are not aborted; their results are discarded.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.attempt++
	w.inFlight = false
	w.discardSession()
	if w.state != model.StateCollectingDetails {
		w.transition(model.StateCollectingDetails)
	}
}

// ChallengeExpired handles the provider's "expired, please retry" notification.
// It reports false when challengeID is not the current challenge.
func (w *Workflow) ChallengeExpired(challengeID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.challenge == nil || w.challenge.ID() != challengeID {
		return false
	}
	w.clearChallenge()
	w.notify(model.NoticeError, msgChallengeExpired)
	w.logger.Info("bot-check expired", zap.String("challenge_id", challengeID))
	return true
}

// View snapshots the card for rendering and drains pending notices
func (w *Workflow) View() dto.WorkflowView {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		errs[k] = v
	}

	view := dto.WorkflowView{
		State: w.state,
		Details: dto.SignupDetailsView{
			Name:    w.details.Name,
			Email:   w.details.Email,
			Phone:   w.details.Phone,
			Pincode: w.details.Pincode,
		},
		Errors:   errs,
		InFlight: w.inFlight,
		CanSend:  w.state == model.StateCollectingDetails && !w.inFlight && !w.closed,
		Notices:  w.notices,
	}
	w.notices = nil
	if view.Notices == nil {
		view.Notices = []dto.NoticeView{}
	}

	if w.session != nil {
		view.MaskedPhone = util.MaskPhone(w.cfg.CountryCode, w.session.NationalNumber)
		view.ChallengeID = w.session.ChallengeID
		view.Cells = w.session.Cells.Cells()
		view.Focus = w.session.Cells.Focus()
		view.CanVerify = w.state == model.StateAwaitingCode && !w.inFlight && w.session.Cells.Complete()
	}
	return view
}

// Close tears everything down; the workflow rejects further calls
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	w.attempt++
	w.inFlight = false
	w.discardSession()
	w.logger.Debug("workflow closed")
}

func (w *Workflow) usable() error {
	if w.closed {
		return ErrClosed
	}
	return nil
}

func (w *Workflow) editableSession() (*VerificationSession, error) {
	if err := w.usable(); err != nil {
		return nil, err
	}
	if w.session == nil || !w.state.ShowsCodeEntry() {
		return nil, ErrNoSession
	}
	if w.state == model.StateVerifyingCode {
		return nil, ErrBusy
	}
	return w.session, nil
}

func (w *Workflow) mountPoint() string {
	return w.cfg.MountPrefix + "/" + w.id
}

// renderChallenge tears the current widget down before rendering a new one;
// providers refuse a second render into the same mount
func (w *Workflow) renderChallenge(token string) (*provider.Challenge, error) {
	w.clearChallenge()

	challenge, err := w.provider.CreateChallenge(w.mountPoint(), provider.ChallengeOptions{
		Token: token,
		TTL:   w.cfg.ChallengeTTL,
		OnExpired: func(id string) {
			w.ChallengeExpired(id)
		},
	})
	if err != nil {
		return nil, err
	}
	w.challenge = challenge
	return challenge, nil
}

func (w *Workflow) clearChallenge() {
	if w.challenge != nil {
		w.challenge.Clear()
		w.challenge = nil
	}
}

func (w *Workflow) discardSession() {
	w.clearChallenge()
	w.session = nil
}

func (w *Workflow) failVerify(err error) error {
	switch {
	case errors.Is(err, provider.ErrInvalidCode):
		w.session.Cells.Reset()
		w.transition(model.StateAwaitingCode)
		w.notify(model.NoticeError, msgInvalidCode)
		return fmt.Errorf("%w: %w", ErrInvalidCode, err)
	case errors.Is(err, provider.ErrCodeExpired):
		w.discardSession()
		w.transition(model.StateCollectingDetails)
		if errors.Is(err, provider.ErrQuotaExceeded) {
			w.notify(model.NoticeError, msgTooManyAttempts)
		} else {
			w.notify(model.NoticeError, msgCodeExpired)
		}
		return fmt.Errorf("%w: %w", ErrCodeExpired, err)
	default:
		w.session.Cells.Reset()
		w.transition(model.StateAwaitingCode)
		w.notify(model.NoticeError, msgVerifyFailed)
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}
}

// complete passes through Completed and leaves an empty form behind
func (w *Workflow) complete(user *provider.UserRecord) *model.WaitlistEntry {
	entry := &model.WaitlistEntry{
		Name:        strings.TrimSpace(w.details.Name),
		Email:       strings.TrimSpace(w.details.Email),
		Phone:       w.session.PhoneNumber,
		Pincode:     w.details.Pincode,
		ProviderUID: user.UID,
		VerifiedAt:  w.now(),
	}

	w.discardSession()
	w.transition(model.StateCompleted)
	w.notify(model.NoticeSuccess, fmt.Sprintf("OTP verified successfully! Welcome to %s", w.cfg.AppName))

	w.details = dto.SignupRequest{}
	w.errors = util.ValidationErrors{}
	w.transition(model.StateCollectingDetails)
	return entry
}

func (w *Workflow) transition(to model.WorkflowState) {
	from := w.state
	w.state = to
	w.logger.Debug("state change", zap.String("from", string(from)), zap.String("to", string(to)))
	for _, fn := range w.observers {
		fn(from, to)
	}
}

func (w *Workflow) notify(kind model.NoticeKind, message string) {
	w.notices = append(w.notices, dto.NoticeView{Kind: kind, Message: message})
}

func sendFailureMessage(err error) string {
	switch {
	case errors.Is(err, provider.ErrInvalidPhone):
		return msgInvalidPhone
	case errors.Is(err, provider.ErrQuotaExceeded):
		return msgTooManyAttempts
	case errors.Is(err, provider.ErrChallengeRejected):
		return msgChallengeFailed
	default:
		return msgSendFailed
	}
}
