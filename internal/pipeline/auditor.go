package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tablesafe.app/concierge/common/llm"
	"tablesafe.app/concierge/common/logger"
	"tablesafe.app/concierge/core/config"
	"tablesafe.app/concierge/internal/domain"
	"tablesafe.app/concierge/internal/prompt"
)

type auditAnnotation struct {
	Candidate string `json:"candidate" jsonschema:"required,description=Exact name of the vetted candidate this note is about"`
	Status    string `json:"status" jsonschema:"required,enum=safe,enum=caution,enum=avoid"`
	Note      string `json:"note" jsonschema:"required,description=Short justification for the grade"`
}

type auditOutput struct {
	Score       int               `json:"score" jsonschema:"required,minimum=0,maximum=100,description=Overall safety confidence for the whole report"`
	Annotations []auditAnnotation `json:"annotations" jsonschema:"required"`
}

var auditSchema = llm.GenerateSchema[auditOutput]()

// Auditor reviews a vetted candidate list and produces the audit report.
// The verdict is derived in code from the configured score cutoffs; the model
// only supplies the score and per-candidate grades.
type Auditor struct {
	llm       llm.Client
	maxTokens int
	cutoffs   domain.ScoreCutoffs
}

func NewAuditor(client llm.Client, llmCfg config.LLMConfig, pipeCfg config.PipelineConfig) *Auditor {
	return &Auditor{
		llm:       client,
		maxTokens: llmCfg.MaxTokens,
		cutoffs: domain.ScoreCutoffs{
			RedBelow: pipeCfg.ScoreRedBelow,
			GreenAt:  pipeCfg.ScoreGreenAt,
		},
	}
}

// Audit scores the candidates against the profile. The returned report
// annotates every input candidate exactly once: annotations for names the
// vetter never produced are discarded, and candidates the model skipped are
// marked unreviewed rather than silently dropped.
func (a *Auditor) Audit(ctx context.Context, q domain.Query, candidates []domain.Candidate) (*domain.AuditReport, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "concierge.pipeline.auditor",
		Stage:     logger.Ptr(string(domain.StageAuditing)),
	})

	var out auditOutput
	resp, err := a.llm.Chat(ctx, llm.Request{
		SystemPrompt: prompt.AuditorSystem,
		UserPrompt:   prompt.AuditorUser(q, candidates),
		SchemaName:   "audit_report",
		Schema:       auditSchema,
		MaxTokens:    a.maxTokens,
		Temperature:  llm.Temp(0),
	}, &out)
	if err != nil {
		llm.IsRetryable(ctx, err)
		return nil, stageError(domain.StageAuditing, err)
	}

	if out.Score < 0 || out.Score > 100 {
		return nil, domain.NewStageError(domain.StageAuditing, domain.KindParse,
			fmt.Errorf("audit score %d out of range [0,100]", out.Score))
	}

	annotations, discarded := reconcileAnnotations(candidates, out.Annotations)

	slog.InfoContext(ctx, "audit completed",
		"score", out.Score,
		"annotations", len(annotations),
		"discarded", discarded,
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens)

	return &domain.AuditReport{
		Score:       out.Score,
		Verdict:     domain.VerdictForScore(out.Score, a.cutoffs),
		Annotations: annotations,
	}, nil
}

// reconcileAnnotations aligns model annotations with the vetted candidates,
// in candidate order. Returns the aligned list and how many model
// annotations referenced unknown candidates.
func reconcileAnnotations(candidates []domain.Candidate, got []auditAnnotation) ([]domain.Annotation, int) {
	byName := make(map[string]auditAnnotation, len(got))
	for _, ann := range got {
		byName[normalizeName(ann.Candidate)] = ann
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[normalizeName(c.Name)] = true
	}
	discarded := 0
	for _, ann := range got {
		if !known[normalizeName(ann.Candidate)] {
			discarded++
		}
	}

	annotations := make([]domain.Annotation, 0, len(candidates))
	for _, c := range candidates {
		ann, ok := byName[normalizeName(c.Name)]
		if !ok {
			annotations = append(annotations, domain.Annotation{
				Candidate: c.Name,
				Status:    domain.StatusUnreviewed,
				Note:      "the auditor did not grade this candidate",
			})
			continue
		}

		status := domain.AnnotationStatus(strings.ToLower(ann.Status))
		if !status.Valid() {
			status = domain.StatusUnreviewed
		}
		annotations = append(annotations, domain.Annotation{
			Candidate: c.Name,
			Status:    status,
			Note:      ann.Note,
		})
	}

	return annotations, discarded
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
