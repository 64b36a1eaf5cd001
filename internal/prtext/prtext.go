// Package prtext renders the "What was tested" section of a pull request
// description.
package prtext

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// NoLinkMessage is returned instead of the template when no link is given.
const NoLinkMessage = "No link provided. Please provide a link to the visualization."

// Format renders link and observations as Markdown. Each observation becomes
// a bullet with surrounding whitespace trimmed.
func Format(link string, observations []string) string {
	if link == "" {
		return NoLinkMessage
	}

	var formattedObservations string
	if len(observations) > 0 {
		bullets := lo.Map(observations, func(obs string, _ int) string {
			return "* " + strings.TrimSpace(obs)
		})
		formattedObservations = "\n" + strings.Join(bullets, "\n")
	}

	prText := fmt.Sprintf(`
### What was tested

**Argus Link:** %s
**Observations:**%s
`, link, formattedObservations)

	return strings.TrimSpace(prText)
}
