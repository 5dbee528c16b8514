package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"doodh-waitlist/middleware"
	"doodh-waitlist/provider"
	"doodh-waitlist/repository"
	"doodh-waitlist/service"
	"doodh-waitlist/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type outbox struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (o *outbox) Send(_ context.Context, _, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.bodies = append(o.bodies, body)
	return nil
}

var sentCode = regexp.MustCompile(`^(\d{6}) is your`)

func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.bodies)
	m := sentCode.FindStringSubmatch(o.bodies[len(o.bodies)-1])
	require.Len(t, m, 2)
	return m[1]
}

type testServer struct {
	app      *fiber.App
	sessions *repository.MemSessionRepo[*service.Workflow]
	sms      *outbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	sms := &outbox{}

	phoneAuth := provider.NewSMSProvider(
		provider.NewChallengeRegistry(0),
		nil,
		repository.NewInMemoryVerificationRepo(),
		sms,
		5*time.Minute,
		"Doodh & Co.",
		logger,
	)
	signer, err := util.NewSessionSigner("test-secret", 15*time.Minute)
	require.NoError(t, err)
	sessions := repository.NewInMemorySessionRepo[*service.Workflow](15 * time.Minute)

	wc := NewWaitlistController(signer, sessions, func() *service.Workflow {
		return service.NewWorkflow(phoneAuth, nil, service.WorkflowConfig{CountryCode: "91", AppName: "Doodh & Co."}, logger)
	}, logger)

	app := fiber.New()
	app.Use(middleware.TimerMetrics(logger))
	wc.Register(app.Group("/api/v1"), middleware.RequireSession(signer, sessions))

	return &testServer{app: app, sessions: sessions, sms: sms}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1/waitlist"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

var signup = map[string]string{
	"name":            "Asha Rao",
	"email":           "asha@example.com",
	"phone":           "98765 43210",
	"pincode":         "560001",
	"recaptcha_token": "widget-token",
}

func view(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	v, ok := body["view"].(map[string]interface{})
	require.True(t, ok, "response carries a view")
	return v
}

func TestValidate(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/validate", "", map[string]string{"name": "A", "email": "bad"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["valid"])
	errs := body["errors"].(map[string]interface{})
	assert.Equal(t, "Please enter a valid email", errs["email"])
	assert.Equal(t, "Phone number is required", errs["phone"])

	status, body = s.do(t, http.MethodPost, "/validate", "", signup)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["valid"])
}

func TestSignupFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)

	status, body := s.do(t, http.MethodGet, "/session", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "collecting_details", body["state"])
	assert.Equal(t, true, body["can_send"])

	status, body = s.do(t, http.MethodPost, "/session/code", token, signup)
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["challenge_id"])
	v := view(t, body)
	assert.Equal(t, "awaiting_code", v["state"])
	assert.Equal(t, "+91-98XXX 3210", v["masked_phone"])

	code := s.sms.lastCode(t)

	status, body = s.do(t, http.MethodPut, "/session/cells/0", token, map[string]string{"value": code[:1]})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["focus"])

	status, body = s.do(t, http.MethodPut, "/session/cells/0", token, map[string]string{"value": code})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["can_verify"])
	assert.EqualValues(t, 5, body["focus"])

	status, body = s.do(t, http.MethodPost, "/session/verify", token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "+919876543210", body["phone_number"])
	assert.NotEmpty(t, body["uid"])

	v = view(t, body)
	assert.Equal(t, "collecting_details", v["state"])
	notices := v["notices"].([]interface{})
	require.Len(t, notices, 1)
	assert.Equal(t, "OTP verified successfully! Welcome to Doodh & Co.", notices[0].(map[string]interface{})["message"])
}

func TestRequestCode_ValidationIs422(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)

	status, body := s.do(t, http.MethodPost, "/session/code", token, map[string]string{"name": "Asha"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]interface{})
	assert.Equal(t, "Email is required", errs["email"])
	assert.Len(t, s.sms.bodies, 0)
}

func TestRequestCode_SendFailureIs502(t *testing.T) {
	s := newTestServer(t)
	s.sms.err = assert.AnError
	token := s.newSession(t)

	status, body := s.do(t, http.MethodPost, "/session/code", token, signup)
	assert.Equal(t, http.StatusBadGateway, status)
	v := view(t, body)
	assert.Equal(t, "collecting_details", v["state"])
	notices := v["notices"].([]interface{})
	require.Len(t, notices, 1)
	assert.Equal(t, "Failed to send OTP. Please try again.", notices[0].(map[string]interface{})["message"])
}

func TestVerify_WrongCodeIs401(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)

	status, _ := s.do(t, http.MethodPost, "/session/code", token, signup)
	require.Equal(t, http.StatusOK, status)

	wrong := "000000"
	if s.sms.lastCode(t) == wrong {
		wrong = "111111"
	}
	status, body := s.do(t, http.MethodPost, "/session/verify", token, map[string]string{"code": wrong})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "awaiting_code", view(t, body)["state"])

	status, _ = s.do(t, http.MethodPost, "/session/verify", token, map[string]string{"code": "12"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestResendAndCancel(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)

	status, _ := s.do(t, http.MethodPost, "/session/resend", token, map[string]string{"recaptcha_token": "t2"})
	assert.Equal(t, http.StatusConflict, status, "nothing to resend yet")

	status, first := s.do(t, http.MethodPost, "/session/code", token, signup)
	require.Equal(t, http.StatusOK, status)

	status, second := s.do(t, http.MethodPost, "/session/resend", token, map[string]string{"recaptcha_token": "t2"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, first["challenge_id"], second["challenge_id"])
	assert.Len(t, s.sms.bodies, 2)

	status, body := s.do(t, http.MethodPost, "/session/challenge/expired", token, map[string]string{"challenge_id": first["challenge_id"].(string)})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["cleared"])

	status, body = s.do(t, http.MethodPost, "/session/cancel", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "collecting_details", body["state"])
	assert.Equal(t, "asha@example.com", body["details"].(map[string]interface{})["email"])

	status, _ = s.do(t, http.MethodPatch, "/session/fields", token, map[string]string{"field": "pincode", "value": "110001"})
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodPatch, "/session/fields", token, map[string]string{"field": "address", "value": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSessionAuth(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodGet, "/session", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := s.newSession(t)
	assert.Equal(t, 1, s.sessions.Len())

	status, _ = s.do(t, http.MethodDelete, "/session", token, nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, s.sessions.Len())

	status, _ = s.do(t, http.MethodGet, "/session", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusConflict, statusFor(service.ErrBusy))
	assert.Equal(t, fiber.StatusConflict, statusFor(service.ErrStaleResult))
	assert.Equal(t, fiber.StatusGone, statusFor(service.ErrCodeExpired))
	assert.Equal(t, fiber.StatusBadGateway, statusFor(service.ErrChallengeSetup))
	assert.Equal(t, fiber.StatusBadGateway, statusFor(service.ErrVerify))
}
