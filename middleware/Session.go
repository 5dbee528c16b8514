package middleware

import (
	"doodh-waitlist/repository"
	"doodh-waitlist/service"
	"doodh-waitlist/util"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalWorkflow   = "workflow"
	LocalWorkflowID = "workflow_id"
)

// RequireSession resolves the bearer token to a live workflow and stores it in Locals
func RequireSession(signer *util.SessionSigner, sessions *repository.MemSessionRepo[*service.Workflow]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		token, err := util.BearerToken(authHeader)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		id, err := signer.ParseSessionToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		wf, err := sessions.Get(id)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "signup session not found or expired"})
		}

		c.Locals(LocalWorkflowID, id)
		c.Locals(LocalWorkflow, wf)
		return c.Next()
	}
}

// Workflow returns the workflow stored by RequireSession
func Workflow(c *fiber.Ctx) *service.Workflow {
	wf, _ := c.Locals(LocalWorkflow).(*service.Workflow)
	return wf
}
