package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"careerhub/models"
	"careerhub/services"
)

// authenticate resolves the caller from the session cookie and stashes
// the merged profile view in the request locals.
func authenticate(c *fiber.Ctx) (map[string]interface{}, error) {
	user, err := services.Sessions().RequireUser(c.Context(), c.Cookies(services.SessionCookieName))
	if err != nil {
		return nil, err
	}

	c.Locals("user", user)
	if uid, ok := user["uid"].(string); ok {
		c.Locals("uid", uid)
	}
	if email, ok := user["email"].(string); ok {
		c.Locals("email", email)
	}
	if role, ok := user["role"].(models.Role); ok {
		c.Locals("role", role)
	}

	return user, nil
}

// RequireAuth rejects anonymous requests with a 401
func RequireAuth(c *fiber.Ctx) error {
	if _, err := authenticate(c); err != nil {
		return err
	}
	return c.Next()
}

// RequireRole rejects callers whose resolved role is not in the allowed
// set. Authentication failures stay 401; a valid session with the wrong
// role is a 403.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authenticate(c)
		if err != nil {
			return err
		}

		role, _ := user["role"].(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		slog.Info("Access denied", "uid", user["uid"], "role", role, "required", roles)
		return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
	}
}

// RequireApprovedMentor lets admins through unconditionally and faculty
// mentors only once an admin has approved their account.
func RequireApprovedMentor(c *fiber.Ctx) error {
	user, err := authenticate(c)
	if err != nil {
		return err
	}

	role, _ := user["role"].(models.Role)
	switch role {
	case models.RoleAdmin:
		return c.Next()
	case models.RoleFacultyMentor:
		status, _ := user["accountStatus"].(models.AccountStatus)
		if status == models.StatusApproved {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, "mentor account not approved")
	}

	return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
}
