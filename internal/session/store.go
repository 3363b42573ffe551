// Package session keeps conversations in memory for callers of the query
// pipeline. Nothing survives a restart.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

var (
	// ErrNotFound is returned for an unknown conversation id
	ErrNotFound = errors.New("conversation not found")

	// ErrBusy is returned when a query is already in flight for the conversation
	ErrBusy = errors.New("conversation has a query in flight")
)

// Message is a stored conversation turn
type Message struct {
	ID        string               `json:"id"`
	Role      types.Role           `json:"role"`
	Content   string               `json:"content"`
	Sources   []types.SearchResult `json:"sources,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Conversation is a snapshot of a stored conversation
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

type conversation struct {
	id         string
	createdAt  time.Time
	lastActive time.Time
	messages   []Message
	busy       bool
}

func (c *conversation) snapshot() Conversation {
	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)
	return Conversation{ID: c.id, CreatedAt: c.createdAt, Messages: messages}
}

// DefaultMaxConversations bounds how many conversations a store keeps
const DefaultMaxConversations = 1000

// Store holds conversations in memory
type Store struct {
	mu               sync.Mutex
	conversations    map[string]*conversation
	maxConversations int
	now              func() time.Time
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithMaxConversations caps the number of stored conversations. When the cap
// is reached, Create drops the least recently active idle conversation.
// Zero or less means no cap.
func WithMaxConversations(n int) StoreOption {
	return func(s *Store) {
		s.maxConversations = n
	}
}

// NewStore creates an empty store
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		conversations:    make(map[string]*conversation),
		maxConversations: DefaultMaxConversations,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new empty conversation
func (s *Store) Create() Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxConversations > 0 && len(s.conversations) >= s.maxConversations {
		s.evictIdle()
	}

	now := s.now()
	c := &conversation{
		id:         uuid.NewString(),
		createdAt:  now,
		lastActive: now,
		messages:   []Message{},
	}
	s.conversations[c.id] = c
	return c.snapshot()
}

// evictIdle drops the least recently active conversation without a query in
// flight. Busy conversations are never dropped. Callers hold s.mu.
func (s *Store) evictIdle() {
	var oldest *conversation
	for _, c := range s.conversations {
		if c.busy {
			continue
		}
		if oldest == nil || c.lastActive.Before(oldest.lastActive) {
			oldest = c
		}
	}
	if oldest != nil {
		delete(s.conversations, oldest.id)
	}
}

// Get returns a snapshot of the conversation
func (s *Store) Get(id string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return Conversation{}, ErrNotFound
	}
	return c.snapshot(), nil
}

// Delete removes the conversation
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, id)
	return nil
}

// Begin marks the conversation busy and returns its history, oldest first.
// Every successful Begin must be followed by End.
func (s *Store) Begin(id string) ([]types.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if c.busy {
		return nil, ErrBusy
	}
	c.busy = true
	c.lastActive = s.now()

	history := make([]types.ChatMessage, 0, len(c.messages))
	for _, m := range c.messages {
		history = append(history, types.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return history, nil
}

// End clears the busy mark set by Begin
func (s *Store) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.conversations[id]; ok {
		c.busy = false
	}
}

// Append records messages, assigning ids and timestamps, and returns the stored copies
func (s *Store) Append(id string, messages ...Message) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}

	stored := make([]Message, 0, len(messages))
	for _, m := range messages {
		m.ID = uuid.NewString()
		m.CreatedAt = s.now()
		c.messages = append(c.messages, m)
		stored = append(stored, m)
	}
	c.lastActive = s.now()
	return stored, nil
}
