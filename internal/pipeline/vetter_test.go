package pipeline_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tablesafe.app/concierge/common/llm"
	"tablesafe.app/concierge/core/config"
	"tablesafe.app/concierge/internal/domain"
	"tablesafe.app/concierge/internal/pipeline"
)

var _ = Describe("Vetter", func() {
	var (
		client *mockLLM
		vetter *pipeline.Vetter
		query  domain.Query
	)

	BeforeEach(func() {
		client = &mockLLM{}
		vetter = pipeline.NewVetter(client,
			config.LLMConfig{MaxTokens: 4096},
			config.PipelineConfig{CandidatePool: 10, MaxCandidates: 3},
		)
		query = domain.Query{
			Location: "Chicago, IL",
			Mission:  "gluten-free deep dish",
			Profile: domain.DietaryProfile{Restrictions: []domain.Restriction{
				{Type: "gluten-free", Severity: domain.SeverityAllergy},
			}},
		}
	})

	It("returns geofenced candidates in model order", func() {
		client.chatFn = respondWith(`{"candidates": [
			{"name": "A", "location": "Lincoln Park, Chicago", "evidence": "gf crust", "source": "menu"},
			{"name": "B", "location": "Loop, Chicago, IL", "evidence": "dedicated kitchen", "source": "site"}
		]}`)

		candidates, err := vetter.Vet(context.Background(), domain.TrackRestaurant, query)
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).To(HaveLen(2))
		Expect(candidates[0].Name).To(Equal("A"))
		Expect(candidates[1].Name).To(Equal("B"))
	})

	It("excludes candidates outside the geofence outright", func() {
		client.chatFn = respondWith(`{"candidates": [
			{"name": "In", "location": "Wicker Park, Chicago", "evidence": "e", "source": "s"},
			{"name": "Out", "location": "Evanston, IL", "evidence": "e", "source": "s"}
		]}`)

		candidates, err := vetter.Vet(context.Background(), domain.TrackRestaurant, query)
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).To(HaveLen(1))
		Expect(candidates[0].Name).To(Equal("In"))
	})

	It("caps the result at the configured maximum", func() {
		client.chatFn = respondWith(`{"candidates": [
			{"name": "1", "location": "Chicago", "evidence": "e", "source": "s"},
			{"name": "2", "location": "Chicago", "evidence": "e", "source": "s"},
			{"name": "3", "location": "Chicago", "evidence": "e", "source": "s"},
			{"name": "4", "location": "Chicago", "evidence": "e", "source": "s"},
			{"name": "5", "location": "Chicago", "evidence": "e", "source": "s"}
		]}`)

		candidates, err := vetter.Vet(context.Background(), domain.TrackRestaurant, query)
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).To(HaveLen(3))
	})

	It("treats zero surviving candidates as a valid empty result", func() {
		client.chatFn = respondWith(`{"candidates": []}`)

		candidates, err := vetter.Vet(context.Background(), domain.TrackGrocery, query)
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).To(BeEmpty())
	})

	It("enables web search and selects the persona for the track", func() {
		var seen llm.Request
		client.chatFn = func(_ context.Context, req llm.Request, result any) (*llm.Response, error) {
			seen = req
			return respondWith(`{"candidates": []}`)(context.Background(), req, result)
		}

		_, err := vetter.Vet(context.Background(), domain.TrackGrocery, query)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen.WebSearch).To(BeTrue())
		Expect(seen.SystemPrompt).To(ContainSubstring("grocery"))
		Expect(seen.Temperature).To(BeNil())
	})

	It("tags provider failures as upstream vetting errors", func() {
		client.chatFn = func(context.Context, llm.Request, any) (*llm.Response, error) {
			return nil, errors.New("search provider down")
		}

		_, err := vetter.Vet(context.Background(), domain.TrackRestaurant, query)
		kind, _ := domain.KindOf(err)
		Expect(kind).To(Equal(domain.KindUpstream))
		stage, _ := domain.StageOf(err)
		Expect(stage).To(Equal(domain.StageVetting))
	})
})
