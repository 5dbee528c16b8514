package controller

import (
	"errors"

	"doodh-waitlist/dto"
	"doodh-waitlist/middleware"
	"doodh-waitlist/repository"
	"doodh-waitlist/service"
	"doodh-waitlist/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WorkflowFactory builds a fresh signup workflow for a new visitor
type WorkflowFactory func() *service.Workflow

type WaitlistController struct {
	signer      *util.SessionSigner
	sessions    *repository.MemSessionRepo[*service.Workflow]
	newWorkflow WorkflowFactory
	logger      *zap.Logger
}

func NewWaitlistController(
	signer *util.SessionSigner,
	sessions *repository.MemSessionRepo[*service.Workflow],
	newWorkflow WorkflowFactory,
	logger *zap.Logger,
) *WaitlistController {
	return &WaitlistController{
		signer:      signer,
		sessions:    sessions,
		newWorkflow: newWorkflow,
		logger:      logger,
	}
}

// Register mounts the waitlist routes; requireSession guards everything under /session
func (wc *WaitlistController) Register(router fiber.Router, requireSession fiber.Handler) {
	wl := router.Group("/waitlist")

	wl.Post("/validate", wc.Validate)
	wl.Post("/sessions", wc.CreateSession)

	session := wl.Group("/session")
	session.Get("/", requireSession, wc.GetSession)
	session.Delete("/", requireSession, wc.CloseSession)
	session.Patch("/fields", requireSession, wc.EditField)
	session.Post("/code", requireSession, wc.RequestCode)
	session.Put("/cells/:index", requireSession, wc.EnterCell)
	session.Post("/cells/:index/backspace", requireSession, wc.Backspace)
	session.Post("/verify", requireSession, wc.VerifyCode)
	session.Post("/resend", requireSession, wc.ResendCode)
	session.Post("/challenge/expired", requireSession, wc.ChallengeExpired)
	session.Post("/cancel", requireSession, wc.Cancel)
}

// Validate godoc
// @Summary      Validate signup details
// @Description  Runs the form checks without starting anything. Always 200; see "valid".
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        payload body dto.SignupRequest true "Signup details"
// @Success      200  {object}  dto.ValidationResponse
// @Failure      400  {object}  map[string]string
// @Router       /waitlist/validate [post]
func (wc *WaitlistController) Validate(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}

	errs := util.ValidateSignup(&req)
	return c.JSON(dto.ValidationResponse{Valid: len(errs) == 0, Errors: errs})
}

// CreateSession godoc
// @Summary      Start a signup session
// @Description  Creates a workflow in collecting_details and returns the bearer token bound to it.
// @Tags         waitlist
// @Produce      json
// @Success      201  {object}  dto.SessionCreatedResponse
// @Failure      500  {object}  map[string]string
// @Router       /waitlist/sessions [post]
func (wc *WaitlistController) CreateSession(c *fiber.Ctx) error {
	wf := wc.newWorkflow()

	token, err := wc.signer.GenerateSessionToken(wf.ID())
	if err != nil {
		wf.Close()
		wc.logger.Error("sign session token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create session"})
	}
	wc.sessions.Put(wf)

	return c.Status(fiber.StatusCreated).JSON(dto.SessionCreatedResponse{
		Token:     token,
		ExpiresIn: int(wc.signer.TTL().Seconds()),
		View:      wf.View(),
	})
}

// GetSession godoc
// @Summary      Current signup card
// @Tags         waitlist
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Success      200  {object}  dto.WorkflowView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /waitlist/session [get]
func (wc *WaitlistController) GetSession(c *fiber.Ctx) error {
	return c.JSON(middleware.Workflow(c).View())
}

// EditField godoc
// @Summary      Edit one form field
// @Description  Stores the value and clears only that field's error.
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Param        payload body dto.FieldEditRequest true "Field edit"
// @Success      200  {object}  dto.WorkflowView
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /waitlist/session/fields [patch]
func (wc *WaitlistController) EditField(c *fiber.Ctx) error {
	var req dto.FieldEditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}
	if err := util.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	wf := middleware.Workflow(c)
	if err := wf.EditField(req.Field, req.Value); err != nil {
		return wc.fail(c, wf, err)
	}
	return c.JSON(wf.View())
}

// RequestCode godoc
// @Summary      Send the verification code
// @Description  Validates the details, checks the bot-check token and texts a 6-digit code.
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Param        payload body dto.SignupRequest true "Signup details with recaptcha_token"
// @Success      200  {object}  dto.CodeSentResponse
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /waitlist/session/code [post]
func (wc *WaitlistController) RequestCode(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}

	wf := middleware.Workflow(c)
	challengeID, err := wf.RequestCode(c.UserContext(), req)
	if err != nil {
		return wc.fail(c, wf, err)
	}
	return c.JSON(dto.CodeSentResponse{ChallengeID: challengeID, View: wf.View()})
}

// EnterCell godoc
// @Summary      Type into one code cell
// @Description  A single digit advances focus, six digits fill every cell, an empty value clears the cell.
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Param        index path int true "Cell index 0-5"
// @Param        payload body dto.CellInputRequest true "Cell value"
// @Success      200  {object}  dto.WorkflowView
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /waitlist/session/cells/{index} [put]
func (wc *WaitlistController) EnterCell(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cell index"})
	}
	var req dto.CellInputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}

	wf := middleware.Workflow(c)
	if _, err := wf.EnterCell(index, req.Value); err != nil {
		return wc.fail(c, wf, err)
	}
	return c.JSON(wf.View())
}

// Backspace godoc
// @Summary      Backspace in a code cell
// @Tags         waitlist
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Param        index path int true "Cell index 0-5"
// @Success      200  {object}  dto.WorkflowView
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /waitlist/session/cells/{index}/backspace [post]
func (wc *WaitlistController) Backspace(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cell index"})
	}

	wf := middleware.Workflow(c)
	if _, err := wf.Backspace(index); err != nil {
		return wc.fail(c, wf, err)
	}
	return c.JSON(wf.View())
}

// VerifyCode godoc
// @Summary      Verify the entered code
// @Description  An optional code in the body is pasted into the cells first.
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Param        payload body dto.VerifyCodeRequest false "Optional full code"
// @Success      200  {object}  dto.VerifiedResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Failure      410  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /waitlist/session/verify [post]
func (wc *WaitlistController) VerifyCode(c *fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
		}
	}

	wf := middleware.Workflow(c)
	if req.Code != "" {
		if err := wf.EnterCode(req.Code); err != nil {
			return wc.fail(c, wf, err)
		}
	}

	user, err := wf.SubmitCode(c.UserContext())
	if err != nil {
		return wc.fail(c, wf, err)
	}
	return c.JSON(dto.VerifiedResponse{UID: user.UID, PhoneNumber: user.PhoneNumber, View: wf.View()})
}

// ResendCode godoc
// @Summary      Resend the verification code
// @Description  Needs a fresh recaptcha_token; the previous bot-check is never reused.
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Param        payload body dto.ResendCodeRequest true "Fresh bot-check token"
// @Success      200  {object}  dto.CodeSentResponse
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /waitlist/session/resend [post]
func (wc *WaitlistController) ResendCode(c *fiber.Ctx) error {
	var req dto.ResendCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}

	wf := middleware.Workflow(c)
	challengeID, err := wf.ResendCode(c.UserContext(), req.RecaptchaToken)
	if err != nil {
		return wc.fail(c, wf, err)
	}
	return c.JSON(dto.CodeSentResponse{ChallengeID: challengeID, View: wf.View()})
}

// ChallengeExpired godoc
// @Summary      Report bot-check expiry
// @Description  Clears the challenge if it is still the current one and posts a notice.
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Param        payload body dto.ChallengeExpiredRequest true "Expired challenge"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /waitlist/session/challenge/expired [post]
func (wc *WaitlistController) ChallengeExpired(c *fiber.Ctx) error {
	var req dto.ChallengeExpiredRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request payload"})
	}
	if err := util.ValidateStruct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	wf := middleware.Workflow(c)
	cleared := wf.ChallengeExpired(req.ChallengeID)
	return c.JSON(fiber.Map{"cleared": cleared, "view": wf.View()})
}

// Cancel godoc
// @Summary      Back to the form
// @Description  Drops the verification session and bot-check; entered details are kept.
// @Tags         waitlist
// @Produce      json
// @Param        Authorization header string true "Bearer <session_token>"
// @Success      200  {object}  dto.WorkflowView
// @Router       /waitlist/session/cancel [post]
func (wc *WaitlistController) Cancel(c *fiber.Ctx) error {
	wf := middleware.Workflow(c)
	wf.Cancel()
	return c.JSON(wf.View())
}

// CloseSession godoc
// @Summary      End the signup session
// @Tags         waitlist
// @Param        Authorization header string true "Bearer <session_token>"
// @Success      204
// @Router       /waitlist/session [delete]
func (wc *WaitlistController) CloseSession(c *fiber.Ctx) error {
	wc.sessions.Delete(middleware.Workflow(c).ID())
	return c.SendStatus(fiber.StatusNoContent)
}

// fail maps workflow errors onto status codes. Responses that follow a state
// change carry the view so the page can show the notice.
func (wc *WaitlistController) fail(c *fiber.Ctx, wf *service.Workflow, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": verr.Errors,
			"view":   wf.View(),
		})
	}

	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		wc.logger.Warn("workflow call failed", zap.String("workflow_id", wf.ID()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "view": wf.View()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCode):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrCodeExpired), errors.Is(err, service.ErrClosed):
		return fiber.StatusGone
	case errors.Is(err, service.ErrIncompleteCode):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrBusy),
		errors.Is(err, service.ErrWrongState),
		errors.Is(err, service.ErrNoSession),
		errors.Is(err, service.ErrStaleResult):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrSend),
		errors.Is(err, service.ErrChallengeSetup),
		errors.Is(err, service.ErrVerify):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}
