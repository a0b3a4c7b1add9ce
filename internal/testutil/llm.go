package testutil

import (
	"context"

	"github.com/ledgersage/ledgersage/internal/llm"
)

// MockClient is a scripted llm.Client. Responses are consumed in order; the
// last one repeats once the script runs out. Err, when set, fails every call.
type MockClient struct {
	Err       error
	Responses []string
	Requests  []llm.Request
}

var _ llm.Client = (*MockClient)(nil)

// Complete records the request and replays the next scripted response.
func (m *MockClient) Complete(_ context.Context, req llm.Request) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := len(m.Requests) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}
