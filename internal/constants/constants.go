package constants

const (
	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyTokenID   = "token_id"
	ContextKeyTokenExp  = "token_expires_at"
	ContextKeyRequestID = "request_id"

	// Headers
	HeaderRequestID = "X-Request-ID"

	// Validation
	MinPasswordLength   = 8
	MaxPasswordBytes    = 72 // bcrypt input limit
	MinTodoTitleLength  = 3
	MaxTodoTitleLength  = 255
	MaxCategoryNameSize = 100

	// AI
	MaxAISuggestions = 20
)
