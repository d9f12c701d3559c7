package pipeline

import (
	"context"
	"log/slog"

	"tablesafe.app/concierge/common/llm"
	"tablesafe.app/concierge/common/logger"
	"tablesafe.app/concierge/core/config"
	"tablesafe.app/concierge/internal/domain"
	"tablesafe.app/concierge/internal/prompt"
)

type routerOutput struct {
	Track string `json:"track" jsonschema:"required,enum=RESTAURANT,enum=GROCERY,description=The single intent track for this query"`
}

var routerSchema = llm.GenerateSchema[routerOutput]()

// IntentRouter classifies a query into exactly one track.
type IntentRouter struct {
	llm       llm.Client
	maxTokens int
}

func NewIntentRouter(client llm.Client, cfg config.LLMConfig) *IntentRouter {
	return &IntentRouter{
		llm:       client,
		maxTokens: cfg.MaxTokens,
	}
}

// Classify returns the track for the query. Output that contains no known
// track label is a classification failure, never a default track.
func (r *IntentRouter) Classify(ctx context.Context, q domain.Query) (domain.Track, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "concierge.pipeline.router",
		Stage:     logger.Ptr(string(domain.StageRouting)),
	})

	var out routerOutput
	resp, err := r.llm.Chat(ctx, llm.Request{
		SystemPrompt: prompt.RouterSystem,
		UserPrompt:   prompt.RouterUser(q),
		SchemaName:   "intent_track",
		Schema:       routerSchema,
		MaxTokens:    r.maxTokens,
		Temperature:  llm.Temp(0),
	}, &out)
	if err != nil {
		llm.IsRetryable(ctx, err)
		return "", stageError(domain.StageRouting, err)
	}

	track, err := domain.ParseTrack(out.Track)
	if err != nil {
		slog.WarnContext(ctx, "router output had no known track label",
			"raw", logger.Truncate(out.Track, 200))
		return "", domain.NewStageError(domain.StageRouting, domain.KindClassification, err)
	}

	slog.InfoContext(ctx, "intent classified",
		"track", track,
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens)

	return track, nil
}
