package usercontext

// Shared Locals keys used across handlers and middlewares
const (
	KeyUserContext = "USER_CONTEXT"
	KeyPrincipal   = "principal"
	KeyUserID      = "user_id"
	KeyIsAdmin     = "isAdmin"
)
