package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tablesafe.app/concierge/internal/domain"
	"tablesafe.app/concierge/internal/http/handler"
)

var _ = Describe("VetHandler", func() {
	var (
		router   *gin.Engine
		pipeline *mockPipeline
	)

	validBody := func() []byte {
		body, _ := json.Marshal(map[string]any{
			"location": "Chicago, IL",
			"mission":  "gluten-free pizza",
			"dietary_profile": map[string]any{
				"restrictions": []map[string]string{
					{"type": "gluten-free", "severity": "allergy"},
				},
			},
		})
		return body
	}

	post := func(body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/vet", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		pipeline = &mockPipeline{}
		h := handler.NewVetHandler(pipeline)
		router.POST("/vet", h.Vet)
	})

	It("returns 200 with the full result on success", func() {
		pipeline.runFn = func(_ context.Context, q domain.Query) (*domain.Result, error) {
			Expect(q.Location).To(Equal("Chicago, IL"))
			Expect(q.Profile.Restrictions).To(HaveLen(1))
			Expect(q.Profile.Restrictions[0].Severity).To(Equal(domain.SeverityAllergy))
			return &domain.Result{
				ID:    123456789,
				Track: domain.TrackRestaurant,
				Candidates: []domain.Candidate{
					{Name: "Crusty's", Location: "Chicago", Evidence: "gf menu", Source: "site"},
				},
				Audit: &domain.AuditReport{
					Score:   75,
					Verdict: domain.VerdictGreen,
					Annotations: []domain.Annotation{
						{Candidate: "Crusty's", Status: domain.StatusSafe, Note: "ok"},
					},
				},
			}, nil
		}

		w := post(validBody())

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["request_id"]).To(Equal("123456789"))
		Expect(resp["track"]).To(Equal("RESTAURANT"))
		Expect(resp["candidates"]).To(HaveLen(1))
		audit := resp["audit"].(map[string]any)
		Expect(audit["verdict"]).To(Equal("green"))
		Expect(audit["annotations"]).To(HaveLen(1))
	})

	It("returns 200 with a note and no audit for an empty result", func() {
		pipeline.runFn = func(context.Context, domain.Query) (*domain.Result, error) {
			return &domain.Result{
				ID:         1,
				Track:      domain.TrackGrocery,
				Candidates: []domain.Candidate{},
				Note:       "no candidates passed vetting for this location and dietary profile",
			}, nil
		}

		w := post(validBody())

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["candidates"]).To(BeEmpty())
		Expect(resp).NotTo(HaveKey("audit"))
		Expect(resp["note"]).NotTo(BeEmpty())
	})

	It("returns 400 on malformed JSON", func() {
		w := post([]byte(`{`))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 when required fields are missing", func() {
		body, _ := json.Marshal(map[string]any{"location": "Chicago, IL"})
		w := post(body)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 on an unknown severity", func() {
		body, _ := json.Marshal(map[string]any{
			"location": "Chicago, IL",
			"mission":  "snacks",
			"dietary_profile": map[string]any{
				"restrictions": []map[string]string{
					{"type": "gluten-free", "severity": "fatal"},
				},
			},
		})
		w := post(body)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 503 when the provider is unavailable", func() {
		pipeline.runFn = func(context.Context, domain.Query) (*domain.Result, error) {
			return nil, domain.NewStageError(domain.StageVetting, domain.KindUpstream,
				errors.New("provider timeout"))
		}

		w := post(validBody())

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["error"]).To(Equal("service unavailable"))
		Expect(resp["kind"]).To(Equal("upstream"))
		Expect(w.Body.String()).NotTo(ContainSubstring("provider timeout"))
	})

	It("returns 502 on a classification failure", func() {
		pipeline.runFn = func(context.Context, domain.Query) (*domain.Result, error) {
			return nil, domain.NewStageError(domain.StageRouting, domain.KindClassification,
				errors.New("no known track label"))
		}

		w := post(validBody())

		Expect(w.Code).To(Equal(http.StatusBadGateway))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["kind"]).To(Equal("classification"))
	})

	It("returns 502 on a parse failure", func() {
		pipeline.runFn = func(context.Context, domain.Query) (*domain.Result, error) {
			return nil, domain.NewStageError(domain.StageAuditing, domain.KindParse,
				errors.New("score out of range"))
		}

		w := post(validBody())
		Expect(w.Code).To(Equal(http.StatusBadGateway))
	})

	It("returns 500 for errors without a pipeline kind", func() {
		pipeline.runFn = func(context.Context, domain.Query) (*domain.Result, error) {
			return nil, errors.New("boom")
		}

		w := post(validBody())
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("boom"))
	})
})
