package llm

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Client is the boundary to the hosted model/search provider. Implementations
// must be stateless and safe for concurrent use; the pipeline shares one
// client across requests.
type Client interface {
	// Chat sends one structured-output completion and unmarshals the model's
	// response into result. A malformed response surfaces as
	// *MalformedResponseError; everything else is a provider failure.
	Chat(ctx context.Context, req Request, result any) (*Response, error)
	Model() string
}

// Request is one rendered prompt plus its response contract.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       any
	MaxTokens    int
	Temperature  *float64 // nil = model default, explicit 0 = deterministic
	// WebSearch enables the provider's hosted search-grounding tool for this
	// call. Only the vetter stage sets it.
	WebSearch bool
}

type Response struct {
	PromptTokens     int
	CompletionTokens int
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// MalformedResponseError reports a provider response that could not be
// decoded against the requested schema. Raw carries the offending content
// for logging; it is never returned to callers of the HTTP API.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// GenerateSchema builds a strict JSON schema for T, suitable for the
// provider's structured-output response format.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}
