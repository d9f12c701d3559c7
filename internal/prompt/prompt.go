// Package prompt renders request parameters into the per-stage instruction
// strings sent to the model provider. Stages exchange typed values, never
// free text: the auditor's prompt is rebuilt from the vetted candidate list,
// not from raw vetter output.
package prompt

import (
	"fmt"
	"strings"

	"tablesafe.app/concierge/internal/domain"
)

const RouterSystem = `You classify food-related requests into exactly one intent track.

Tracks:
- RESTAURANT: the user wants somewhere to eat or order prepared food from.
- GROCERY: the user wants packaged products, ingredients, or brands to buy.

Respond with the single track label only.`

// RouterUser renders the routing prompt. Location is included because
// phrasing like "near the loop" only disambiguates with the city attached.
func RouterUser(q domain.Query) string {
	var b strings.Builder
	b.WriteString("Query: " + q.Mission + "\n")
	b.WriteString("Location: " + q.Location + "\n")
	return b.String()
}

const restaurantVetterSystem = `You are a dietary safety officer vetting restaurants.

1. Use web search to find REAL restaurants matching the user's location and query.
2. Check menus, allergen statements, and recent reviews against the dietary profile.
3. Only include a restaurant when you found concrete supporting evidence; quote it.
4. Every entry's location must lie inside the stated location. Never include
   somewhere outside it, however good the match.
5. Rank entries best-evidenced first.`

const groceryVetterSystem = `You are a product analyst vetting grocery items.

1. Use web search to find real products and brands matching the user's query,
   available around the stated location.
2. Check ingredient labels and manufacturer allergen disclosures against the
   dietary profile.
3. Only include a product when you found concrete supporting evidence; quote it.
4. Name where around the stated location the product is sold; skip products
   only available elsewhere.
5. Rank entries best-evidenced first.`

// VetterSystem selects the stage persona for the routed track.
func VetterSystem(track domain.Track) string {
	if track == domain.TrackGrocery {
		return groceryVetterSystem
	}
	return restaurantVetterSystem
}

// VetterUser renders the vetting prompt. pool is the number of search hits to
// gather before filtering; the caller caps the survivors separately.
func VetterUser(q domain.Query, pool int) string {
	var b strings.Builder
	b.WriteString("User Query: " + q.Mission + "\n")
	b.WriteString("Location: " + q.Location + "\n")
	b.WriteString("Dietary Profile: " + DescribeProfile(q.Profile) + "\n\n")
	fmt.Fprintf(&b, "Gather roughly %d options, vet them strictly, and return the ones that pass.\n", pool)
	b.WriteString("For each: name, its location, the evidence you found, and the source it came from.\n")
	return b.String()
}

const AuditorSystem = `You audit a dietary-safety vetting report.

Review every candidate against the dietary profile and grade the report:
- score: overall safety confidence, 0-100. Higher means stronger evidence.
  Thin or secondhand evidence must lower the score, severe restrictions
  (allergies) demand more rigor than preferences.
- one annotation per candidate: status safe, caution, or avoid, plus a short
  note explaining the grade.

Audit only what you were given. Never introduce candidates of your own.`

// AuditorUser renders the audit prompt from the typed candidate list.
func AuditorUser(q domain.Query, candidates []domain.Candidate) string {
	var b strings.Builder
	b.WriteString("Dietary Profile: " + DescribeProfile(q.Profile) + "\n")
	b.WriteString("Location: " + q.Location + "\n\n")
	b.WriteString("Vetting report:\n\n")

	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, c.Name, c.Location)
		fmt.Fprintf(&b, "   Evidence: %s\n", c.Evidence)
		if c.Source != "" {
			fmt.Fprintf(&b, "   Source: %s\n", c.Source)
		}
	}

	return b.String()
}

// DescribeProfile renders a dietary profile for prompt embedding, e.g.
// "gluten-free (allergy); dairy-free (intolerance)".
func DescribeProfile(p domain.DietaryProfile) string {
	if len(p.Restrictions) == 0 {
		return "no declared restrictions"
	}

	parts := make([]string, len(p.Restrictions))
	for i, r := range p.Restrictions {
		parts[i] = fmt.Sprintf("%s (%s)", r.Type, r.Severity)
	}
	return strings.Join(parts, "; ")
}
