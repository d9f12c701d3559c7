package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tablesafe.app/concierge/internal/domain"
	"tablesafe.app/concierge/internal/http/dto"
)

// Pipeline runs the full vetting pipeline for one query.
type Pipeline interface {
	Run(ctx context.Context, q domain.Query) (*domain.Result, error)
}

type VetHandler struct {
	pipeline Pipeline
}

func NewVetHandler(pipeline Pipeline) *VetHandler {
	return &VetHandler{pipeline: pipeline}
}

// Vet handles POST /api/v1/vet. An empty candidate list is a 200 with a
// note; pipeline failures map to 503 for upstream outages and 502 for
// classification and parse failures.
func (h *VetHandler) Vet(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.VetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid vet request", "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	q, err := toQuery(req)
	if err != nil {
		slog.WarnContext(ctx, "invalid vet request", "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.pipeline.Run(ctx, q)
	if err != nil {
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "vet pipeline failed", "error", err)
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func toQuery(req dto.VetRequest) (domain.Query, error) {
	restrictions := make([]domain.Restriction, 0, len(req.DietaryProfile.Restrictions))
	for _, r := range req.DietaryProfile.Restrictions {
		restriction := domain.Restriction{
			Type:     strings.TrimSpace(r.Type),
			Severity: domain.Severity(r.Severity),
		}
		if restriction.Type == "" {
			return domain.Query{}, domain.ErrEmptyRestriction
		}
		restrictions = append(restrictions, restriction)
	}

	return domain.Query{
		Location: strings.TrimSpace(req.Location),
		Profile:  domain.DietaryProfile{Restrictions: restrictions},
		Mission:  strings.TrimSpace(req.Mission),
	}, nil
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	kind, ok := domain.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"}
	}

	switch kind {
	case domain.KindUpstream:
		return http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "service unavailable",
			Kind:  string(kind),
		}
	case domain.KindClassification, domain.KindParse:
		return http.StatusBadGateway, dto.ErrorResponse{
			Error: "model response could not be processed",
			Kind:  string(kind),
		}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"}
	}
}

func toResponse(result *domain.Result) dto.VetResponse {
	candidates := make([]dto.CandidateResponse, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		candidates = append(candidates, dto.CandidateResponse{
			Name:     c.Name,
			Location: c.Location,
			Evidence: c.Evidence,
			Source:   c.Source,
		})
	}

	resp := dto.VetResponse{
		RequestID:  strconv.FormatInt(result.ID, 10),
		Track:      string(result.Track),
		Candidates: candidates,
		Note:       result.Note,
	}

	if result.Audit != nil {
		annotations := make([]dto.AnnotationResponse, 0, len(result.Audit.Annotations))
		for _, a := range result.Audit.Annotations {
			annotations = append(annotations, dto.AnnotationResponse{
				Candidate: a.Candidate,
				Status:    string(a.Status),
				Note:      a.Note,
			})
		}
		resp.Audit = &dto.AuditResponse{
			Score:       result.Audit.Score,
			Verdict:     string(result.Audit.Verdict),
			Annotations: annotations,
		}
	}

	return resp
}
