package prompt_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tablesafe.app/concierge/internal/domain"
	"tablesafe.app/concierge/internal/prompt"
)

var _ = Describe("VetterSystem", func() {
	It("uses the restaurant persona for the restaurant track", func() {
		Expect(prompt.VetterSystem(domain.TrackRestaurant)).To(ContainSubstring("restaurants"))
	})

	It("uses the grocery persona for the grocery track", func() {
		Expect(prompt.VetterSystem(domain.TrackGrocery)).To(ContainSubstring("grocery"))
	})

	It("instructs both personas to stay inside the stated location", func() {
		for _, track := range domain.Tracks() {
			Expect(prompt.VetterSystem(track)).To(ContainSubstring("stated location"))
		}
	})
})

var _ = Describe("DescribeProfile", func() {
	It("renders each restriction with its severity", func() {
		p := domain.DietaryProfile{Restrictions: []domain.Restriction{
			{Type: "gluten-free", Severity: domain.SeverityAllergy},
			{Type: "dairy-free", Severity: domain.SeverityIntolerance},
		}}
		Expect(prompt.DescribeProfile(p)).To(Equal("gluten-free (allergy); dairy-free (intolerance)"))
	})

	It("names the absence of restrictions explicitly", func() {
		Expect(prompt.DescribeProfile(domain.DietaryProfile{})).To(Equal("no declared restrictions"))
	})
})

var _ = Describe("Stage prompts", func() {
	query := domain.Query{
		Location: "Portland, OR",
		Mission:  "date night ramen",
		Profile: domain.DietaryProfile{Restrictions: []domain.Restriction{
			{Type: "shellfish-free", Severity: domain.SeverityAllergy},
		}},
	}

	It("includes mission and location in the routing prompt", func() {
		rendered := prompt.RouterUser(query)
		Expect(rendered).To(ContainSubstring("date night ramen"))
		Expect(rendered).To(ContainSubstring("Portland, OR"))
	})

	It("includes the profile and pool size in the vetting prompt", func() {
		rendered := prompt.VetterUser(query, 10)
		Expect(rendered).To(ContainSubstring("shellfish-free (allergy)"))
		Expect(rendered).To(ContainSubstring("10 options"))
	})

	It("rebuilds the audit prompt from the typed candidate list", func() {
		candidates := []domain.Candidate{
			{Name: "Noodle House", Location: "Portland, OR", Evidence: "dedicated fryer", Source: "menu page"},
			{Name: "Broth Bar", Location: "Portland, OR", Evidence: "allergen chart"},
		}
		rendered := prompt.AuditorUser(query, candidates)
		Expect(rendered).To(ContainSubstring("1. Noodle House"))
		Expect(rendered).To(ContainSubstring("2. Broth Bar"))
		Expect(rendered).To(ContainSubstring("dedicated fryer"))
		Expect(rendered).To(ContainSubstring("Source: menu page"))
		Expect(rendered).To(ContainSubstring("shellfish-free (allergy)"))
	})
})
