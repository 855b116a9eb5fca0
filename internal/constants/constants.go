package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
	ContextKeyToken  = "token"
)

// Authentication
const (
	BearerScheme      = "Bearer"
	TokenType         = "bearer"
	TokenBytes        = 32
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// Tasks
const (
	MaxTitleLength      = 200
	MaxAIGeneratedTasks = 20
)
