package shifts

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

// ErrNoShifts is returned when every extraction strategy came up empty.
// Recoverable: callers typically fall back to sample data.
var ErrNoShifts = errors.New("shifts: no shifts found")

// maxDescriptionLen caps free-text descriptions on canonical records.
const maxDescriptionLen = 200

// Extractor turns raw portal HTML into canonical shift records.
// Strategies are tried in order; the first one that yields records wins.
type Extractor struct {
	baseOrigin string
	catalog    []string
	logger     *slog.Logger
}

// strategy is one pure HTML-to-records parsing approach.
type strategy struct {
	name  string
	parse func(doc *html.Node) []domain.Shift
}

// NewExtractor creates an extractor. baseOrigin is the portal root used to
// resolve relative signup hrefs; catalog is the recognized committee list.
func NewExtractor(baseOrigin string, catalog []string, logger *slog.Logger) *Extractor {
	return &Extractor{
		baseOrigin: strings.TrimRight(baseOrigin, "/"),
		catalog:    catalog,
		logger:     logger,
	}
}

// Extract parses rawHTML and returns the canonical records from the first
// strategy that produced any. Malformed fragments degrade to default field
// values; only a fully empty result is an error (ErrNoShifts).
func (e *Extractor) Extract(rawHTML string) ([]domain.Shift, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		// html.Parse tolerates almost anything; treat a hard failure the
		// same as an empty page.
		return nil, ErrNoShifts
	}

	strategies := []strategy{
		{name: "table", parse: e.parseTables},
		{name: "grid", parse: e.parseGrid},
	}

	for _, s := range strategies {
		records := s.parse(doc)
		if len(records) > 0 {
			e.logger.Debug("extraction strategy matched",
				"strategy", s.name,
				"shifts", len(records),
			)
			return records, nil
		}
		e.logger.Debug("extraction strategy empty", "strategy", s.name)
	}

	return nil, ErrNoShifts
}

// resolveURL makes an href absolute against the portal base origin.
func (e *Extractor) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return e.baseOrigin + href
}

// nextID formats the sequential per-extraction record identifier.
func nextID(counter int) string {
	return fmt.Sprintf("shift_%03d", counter)
}

// truncate limits s to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
