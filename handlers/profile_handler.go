package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"careerhub/apperr"
	"careerhub/services"
)

// GetProfile returns the caller's own merged profile view
func GetProfile(c *fiber.Ctx) error {
	return c.JSON(c.Locals("user"))
}

// UpdateProfile merges a caller-supplied object into the caller's profile
// document and echoes the stored result. The role and account-status
// fields are stripped: only the session manager writes the authoritative
// role, and only admins decide account status.
func UpdateProfile(c *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil || payload == nil {
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "expected a JSON object"})
	}

	fields := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		switch k {
		case "role", "accountStatus", "uid", "createdAt", "updatedAt":
			continue
		}
		fields[k] = v
	}
	if len(fields) == 0 {
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "no updatable fields supplied"})
	}
	fields["updatedAt"] = time.Now().UTC()

	uid := c.Locals("uid").(string)
	profile, err := services.Sessions().Profiles().Merge(c.Context(), uid, fields)
	if err != nil {
		return apperr.Upstream("merge profile", err)
	}

	return c.JSON(profile.View())
}
