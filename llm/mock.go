// ABOUTME: Mock LLM client for tests and dry runs
// ABOUTME: Records prompts and returns canned responses in order
package llm

import "context"

// MockClient is a test double for the LLM Client interface.
// Responses are returned in order; the last one repeats when exhausted.
type MockClient struct {
	Responses []*Response
	Err       error
	Calls     []string // records user prompts sent
	Systems   []string // records system preambles sent
}

// Complete records the call and returns the next canned response.
func (m *MockClient) Complete(ctx context.Context, system, prompt string) (*Response, error) {
	m.Calls = append(m.Calls, prompt)
	m.Systems = append(m.Systems, system)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return &Response{Provider: "mock"}, nil
	}
	idx := len(m.Calls) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}
