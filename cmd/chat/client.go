package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

// chatClient keeps the conversation locally and sends it with every query
type chatClient struct {
	serverURL  string
	httpClient *http.Client
	history    []types.ChatMessage
}

func newChatClient(serverURL string, httpClient *http.Client) *chatClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &chatClient{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: httpClient,
	}
}

// ask posts the message with the history so far. History only grows on success.
func (c *chatClient) ask(ctx context.Context, message string) (types.QueryResult, error) {
	jsonData, err := json.Marshal(types.QueryRequest{Message: message, History: c.history})
	if err != nil {
		return types.QueryResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/query", bytes.NewBuffer(jsonData))
	if err != nil {
		return types.QueryResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.QueryResult{}, fmt.Errorf("failed to send query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr types.ErrorResponse
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return types.QueryResult{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return types.QueryResult{}, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result types.QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return types.QueryResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	c.history = append(c.history,
		types.ChatMessage{Role: types.RoleUser, Content: message},
		types.ChatMessage{Role: types.RoleAssistant, Content: result.Response},
	)

	return result, nil
}

// run reads one message per line until in is exhausted or ctx is cancelled.
// Blank lines are skipped.
func (c *chatClient) run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprint(out, "> ")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return ctx.Err()
				}
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			fmt.Fprint(out, "> ")
			continue
		}

		result, err := c.ask(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "error: %v\n\n> ", err)
			continue
		}

		printResult(out, result)
		fmt.Fprint(out, "> ")
	}
}

func printResult(out io.Writer, result types.QueryResult) {
	fmt.Fprintf(out, "%s\n", result.Response)
	if len(result.Sources) > 0 {
		fmt.Fprintln(out, "\nSources:")
		for i, s := range result.Sources {
			fmt.Fprintf(out, "  [%d] %s (%s)\n", i+1, s.Label(), s.URL)
		}
	}
	fmt.Fprintln(out)
}
