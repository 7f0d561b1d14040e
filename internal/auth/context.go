package auth

import (
	"github.com/gofiber/fiber/v2"
)

// Identity is the logged-in user as remembered by the session.
type Identity struct {
	UserID   int64
	Name     string
	Email    string
	ImageURL string
}

const identityLocalsKey = "auth.identity"

// SetIdentity stores the identity on the request for downstream handlers.
func SetIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityLocalsKey, id)
}

// GetIdentity returns the identity placed by RequirePage/RequireAPI, or nil.
func GetIdentity(c *fiber.Ctx) *Identity {
	if id, ok := c.Locals(identityLocalsKey).(*Identity); ok {
		return id
	}
	return nil
}
