// Package permission gates operations that only administrators may run.
package permission

import (
	"errors"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
)

var (
	// ErrMissingPrincipal is returned when a gated operation is called without a caller.
	ErrMissingPrincipal = errors.New("permission: principal is required")
	// ErrDenied is returned when the caller does not hold the administrator role.
	ErrDenied = errors.New("permission: administrator role required")
)

// RequireAdmin traces the call and checks that principal is an administrator.
// The trace is written for every call, before the role check.
func RequireAdmin(operation string, principal *models.User, args ...interface{}) error {
	if principal != nil {
		log.Debugf("[Permission] %s args=%v user=%d role=%s", operation, args, principal.ID, principal.Role)
	} else {
		log.Debugf("[Permission] %s args=%v user=<none>", operation, args)
	}

	if principal == nil {
		return ErrMissingPrincipal
	}
	if principal.Role != models.ROLE_ADMIN {
		return ErrDenied
	}
	return nil
}
