package types

// QueryRequest is the body of a stateless query
type QueryRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history" validate:"dive"`
}

// SessionMessageRequest is the body of a message sent to a stored conversation
type SessionMessageRequest struct {
	Message string `json:"message"`
}

// SessionMessageResponse represents the reply to a message sent to a stored conversation
type SessionMessageResponse struct {
	SessionID string         `json:"session_id"`
	MessageID string         `json:"message_id"`
	Response  string         `json:"response"`
	Sources   []SearchResult `json:"sources"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
