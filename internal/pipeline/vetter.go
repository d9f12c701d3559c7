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

type vetterCandidate struct {
	Name     string `json:"name" jsonschema:"required,description=Venue or product name"`
	Location string `json:"location" jsonschema:"required,description=Where it is: neighborhood and city for venues, where it is sold for products"`
	Evidence string `json:"evidence" jsonschema:"required,description=Quoted evidence found during search supporting dietary safety"`
	Source   string `json:"source" jsonschema:"required,description=Where the evidence came from (site or page)"`
}

type vetterOutput struct {
	Candidates []vetterCandidate `json:"candidates" jsonschema:"required"`
}

var vetterSchema = llm.GenerateSchema[vetterOutput]()

// Vetter gathers search-grounded candidates for a routed query and filters
// them against the dietary profile and the geofence.
type Vetter struct {
	llm       llm.Client
	maxTokens int
	pool      int
	max       int
}

func NewVetter(client llm.Client, llmCfg config.LLMConfig, pipeCfg config.PipelineConfig) *Vetter {
	return &Vetter{
		llm:       client,
		maxTokens: llmCfg.MaxTokens,
		pool:      pipeCfg.CandidatePool,
		max:       pipeCfg.MaxCandidates,
	}
}

// Vet returns up to the configured maximum of geofenced candidates, ranked as
// the model ranked them. Fewer than the target is fine; zero candidates is an
// empty result, not an error. Entries outside the geofence are excluded
// outright, never down-ranked.
func (v *Vetter) Vet(ctx context.Context, track domain.Track, q domain.Query) ([]domain.Candidate, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "concierge.pipeline.vetter",
		Stage:     logger.Ptr(string(domain.StageVetting)),
		Track:     logger.Ptr(string(track)),
	})

	var out vetterOutput
	resp, err := v.llm.Chat(ctx, llm.Request{
		SystemPrompt: prompt.VetterSystem(track),
		UserPrompt:   prompt.VetterUser(q, v.pool),
		SchemaName:   "vetted_candidates",
		Schema:       vetterSchema,
		MaxTokens:    v.maxTokens,
		WebSearch:    true,
	}, &out)
	if err != nil {
		llm.IsRetryable(ctx, err)
		return nil, stageError(domain.StageVetting, err)
	}

	candidates := make([]domain.Candidate, 0, v.max)
	outside := 0
	for _, c := range out.Candidates {
		if !domain.InGeofence(c.Location, q.Location) {
			outside++
			slog.DebugContext(ctx, "candidate outside geofence, excluded",
				"name", c.Name,
				"candidate_location", c.Location)
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Name:     c.Name,
			Location: c.Location,
			Evidence: c.Evidence,
			Source:   c.Source,
		})
		if len(candidates) == v.max {
			break
		}
	}

	slog.InfoContext(ctx, "vetting completed",
		"returned", len(candidates),
		"pool", len(out.Candidates),
		"outside_geofence", outside,
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens)

	return candidates, nil
}
