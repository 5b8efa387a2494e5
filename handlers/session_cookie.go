package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"careerhub/services"
)

// secureCookies is enabled in production so the session cookie is only
// sent over TLS
var secureCookies bool

// SetSecureCookies configures the Secure flag on session cookies
func SetSecureCookies(on bool) {
	secureCookies = on
}

// writeSessionCookie delivers the session artifact as an HTTP-only,
// same-site-lax cookie scoped to the whole site. The cookie is the only
// place the artifact lives; there is no server-side session table.
func writeSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    token,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HTTPOnly: true,
		Secure:   secureCookies,
		SameSite: "Lax",
		Path:     "/",
	})
}

// clearSessionCookie overwrites the session cookie with an empty value
// and zero max-age. Safe to call with no prior session.
func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   0,
		HTTPOnly: true,
		Secure:   secureCookies,
		SameSite: "Lax",
		Path:     "/",
	})
}
