package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tablesafe.app/concierge/internal/domain"
)

var _ = Describe("ParseTrack", func() {
	DescribeTable("extracts the track label",
		func(input string, want domain.Track) {
			track, err := domain.ParseTrack(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(track).To(Equal(want))
		},
		Entry("bare label", "RESTAURANT", domain.TrackRestaurant),
		Entry("lowercase label", "grocery", domain.TrackGrocery),
		Entry("label inside prose", "The intent here is RESTAURANT.", domain.TrackRestaurant),
		Entry("mixed case with whitespace", "  Grocery\n", domain.TrackGrocery),
	)

	It("picks the label that appears first when both occur", func() {
		track, err := domain.ParseTrack("GROCERY, though RESTAURANT was close")
		Expect(err).NotTo(HaveOccurred())
		Expect(track).To(Equal(domain.TrackGrocery))
	})

	It("fails on output with no known label instead of defaulting", func() {
		_, err := domain.ParseTrack("I cannot classify this request")
		Expect(err).To(HaveOccurred())
	})

	It("fails on empty output", func() {
		_, err := domain.ParseTrack("")
		Expect(err).To(HaveOccurred())
	})
})
