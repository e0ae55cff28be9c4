package mailer

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

//go:embed templates/digest.html.tmpl
var templateFS embed.FS

var digestTemplate = template.Must(template.ParseFS(templateFS, "templates/digest.html.tmpl"))

// digestData is the root context for the digest template.
type digestData struct {
	Recipient string
	Matches   []digestMatch
}

// digestMatch is one ranked shift row in the email.
type digestMatch struct {
	Rank       int
	Shift      domain.Shift
	Score      int
	Breakdown  []string
	BadgeColor string
	Emoji      template.HTML
}

// RenderDigest builds the HTML body for a subscriber's daily digest.
func RenderDigest(recipient string, matches []domain.ScoredShift) (string, error) {
	data := digestData{Recipient: recipient}

	for i, m := range matches {
		color, emoji := scoreBadge(m.Score)

		var reasons []string
		for _, entry := range m.Breakdown {
			reasons = append(reasons, entry.Reason)
		}

		data.Matches = append(data.Matches, digestMatch{
			Rank:       i + 1,
			Shift:      m.Shift,
			Score:      m.Score,
			Breakdown:  reasons,
			BadgeColor: color,
			Emoji:      emoji,
		})
	}

	var sb strings.Builder
	if err := digestTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return sb.String(), nil
}

// scoreBadge picks the badge color and emoji for a match score.
func scoreBadge(score int) (string, template.HTML) {
	switch {
	case score >= 90:
		return "#e17055", "&#x1F525;"
	case score >= 75:
		return "#6C5CE7", "&#x1F49C;"
	default:
		return "#636e72", "&#x2B50;"
	}
}
