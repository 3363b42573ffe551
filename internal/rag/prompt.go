package rag

import (
	"fmt"
	"strings"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

const systemPreamble = `You are a helpful assistant with access to current information from the web, retrieved for this question.

When the web search context below is relevant, base your answer on it first. When it is not relevant or says nothing was found, answer from your general knowledge and tell the user that you did so, so they know whether the answer comes from current web results or from general knowledge.

Cite the sources you used from the web search context.

Current web search context:
`

// formatSources renders each result as a Source/Content pair, separated by blank lines
func formatSources(results []types.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Source: %s\nContent: %s", r.Label(), r.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// buildSystemPrompt appends the search context, or the placeholder when there is none
func buildSystemPrompt(results []types.SearchResult, placeholder string) string {
	sources := formatSources(results)
	if sources == "" {
		sources = placeholder
	}
	return systemPreamble + sources + "\n"
}

// trailingWindow returns the last n messages of history, oldest first
func trailingWindow(history []types.ChatMessage, n int) []types.ChatMessage {
	if n <= 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// buildMessages assembles system prompt, history and the new user message
func buildMessages(system string, history []types.ChatMessage, userMessage string) []types.ChatMessage {
	messages := make([]types.ChatMessage, 0, len(history)+2)
	messages = append(messages, types.ChatMessage{Role: types.RoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, types.ChatMessage{Role: types.RoleUser, Content: userMessage})
	return messages
}
