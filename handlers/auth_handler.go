package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"careerhub/apperr"
	"careerhub/services"
)

type EstablishRequest struct {
	IDToken string                 `json:"idToken"`
	Profile map[string]interface{} `json:"profile"`
}

// EstablishSession verifies the posted ID token, synchronizes the role
// claim with the profile document, and sets the session cookie. Every
// failure mode surfaces as a single 401; partial side effects (profile
// written, claim write failed) are possible and not rolled back.
func EstablishSession(c *fiber.Ctx) error {
	var req EstablishRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "invalid request body"})
	}

	result, err := services.Sessions().Establish(c.Context(), req.IDToken, req.Profile)
	if err != nil {
		var phaseErr *services.EstablishError
		if errors.As(err, &phaseErr) {
			slog.Error("Session establishment failed", "phase", phaseErr.Phase, "error", phaseErr.Err)
		}
		return apperr.AuthenticationWrap("session establishment failed", err)
	}

	writeSessionCookie(c, result.Token, result.ExpiresAt)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// TerminateSession clears the session cookie. It does not revoke the
// underlying token with the provider, and succeeds whether or not a
// session existed.
func TerminateSession(c *fiber.Ctx) error {
	clearSessionCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// GetCurrentUser reports who the caller is. An absent or unverifiable
// cookie yields {"user": null} with a 200: unauthenticated browsing is
// not an error here.
func GetCurrentUser(c *fiber.Ctx) error {
	user, err := services.Sessions().CurrentUser(c.Context(), c.Cookies(services.SessionCookieName))
	if err != nil {
		return err
	}
	if user == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": nil})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a local credential with the built-in identity
// provider and returns a fresh ID token for it. Deployments backed by an
// external provider do not expose this route.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	cred, err := services.CreateCredential(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	idToken, err := services.Sessions().Provider().IssueIDToken(c.Context(), cred.UID, cred.Email)
	if err != nil {
		return apperr.Upstream("issue id token", err)
	}

	slog.Info("Credential registered", "uid", cred.UID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uid":     cred.UID,
		"idToken": idToken,
	})
}

type TokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token exchanges a local email/password credential for a short-lived ID
// token, which the client then posts to the establish endpoint.
func Token(c *fiber.Ctx) error {
	var req TokenRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	cred, err := services.VerifyCredential(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	idToken, err := services.Sessions().Provider().IssueIDToken(c.Context(), cred.UID, cred.Email)
	if err != nil {
		return apperr.Upstream("issue id token", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"uid":     cred.UID,
		"idToken": idToken,
	})
}
