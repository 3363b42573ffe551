package types

// Role identifies the author of a chat turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage represents one conversation turn
type ChatMessage struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

// SearchResult represents a web document returned by the search provider
type SearchResult struct {
	URL     string `json:"url"`
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
}

// Label returns the title, or the URL when the title is empty
func (r SearchResult) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.URL
}

// QueryResult is the generated reply together with the search results used to ground it
type QueryResult struct {
	Response string         `json:"response"`
	Sources  []SearchResult `json:"sources"`
}
