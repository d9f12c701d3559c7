package pipeline_test

import (
	"context"
	"encoding/json"

	"tablesafe.app/concierge/common/llm"
)

// mockLLM satisfies llm.Client. chatFn typically unmarshals a canned JSON
// payload into result, the same way the real client decodes provider output.
type mockLLM struct {
	model  string
	chatFn func(ctx context.Context, req llm.Request, result any) (*llm.Response, error)
}

func (m *mockLLM) Chat(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	if m.chatFn != nil {
		return m.chatFn(ctx, req, result)
	}
	return &llm.Response{}, nil
}

func (m *mockLLM) Model() string {
	if m.model != "" {
		return m.model
	}
	return "mock-model"
}

// respondWith builds a chatFn that decodes payload into result.
func respondWith(payload string) func(context.Context, llm.Request, any) (*llm.Response, error) {
	return func(_ context.Context, _ llm.Request, result any) (*llm.Response, error) {
		if err := json.Unmarshal([]byte(payload), result); err != nil {
			return nil, &llm.MalformedResponseError{Raw: payload, Err: err}
		}
		return &llm.Response{PromptTokens: 100, CompletionTokens: 50}, nil
	}
}
