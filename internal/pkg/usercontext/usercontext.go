package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

// SetPrincipal stores the authenticated user and its derived context on the request
func SetPrincipal(c *fiber.Ctx, user *models.User) {
	c.Locals(KeyPrincipal, user)
	c.Locals(KeyUserContext, UserContext{
		UserID:     user.ID,
		Username:   user.Name,
		IsLoggedIn: true,
		IsAdmin:    user.IsAdmin(),
	})
	c.Locals(KeyUserID, user.ID)
	c.Locals(KeyIsAdmin, user.IsAdmin())
}

// GetPrincipal returns the authenticated user, or nil for anonymous requests
func GetPrincipal(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals(KeyPrincipal).(*models.User); ok {
		return u
	}
	return nil
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}
