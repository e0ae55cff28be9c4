package shifts

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

// Column header shape: "Sat 2/14/2026", optionally followed by trailing
// text. The separator is often &nbsp; in the portal's markup, so the class
// admits U+00A0 alongside \s.
var columnHeaderRegex = regexp.MustCompile(`^(Mon|Tue|Wed|Thu|Fri|Sat|Sun)[\s\x{00A0}]*(\d{1,2}/\d{1,2}/\d{4})`)

// parseGrid implements the grid strategy for the portal's day-column
// calendar: div.grid-container holding one div.col per day, each a header
// paragraph followed by a.shift links. Every link is a shift; availability
// and bonus flags ride on the link's classes.
func (e *Extractor) parseGrid(doc *html.Node) []domain.Shift {
	grid := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "div") && hasClass(n, "grid-container")
	})
	if grid == nil {
		return nil
	}

	var records []domain.Shift
	counter := 0

	for colIdx, col := range childElements(grid, "div") {
		if !hasClass(col, "col") {
			continue
		}

		header := findFirst(col, func(n *html.Node) bool { return isElement(n, "p") })
		if header == nil {
			continue
		}

		day := "Unknown"
		date := ""
		if m := columnHeaderRegex.FindStringSubmatch(textContent(header)); m != nil {
			day = NormalizeDay(m[1])
			date = m[2]
		}

		links := findAll(col, func(n *html.Node) bool {
			return isElement(n, "a") && hasClass(n, "shift")
		})
		for _, link := range links {
			counter++
			record := e.extractGridShift(link, day, date, colIdx)
			record.ID = nextID(counter)
			records = append(records, record)
		}
	}
	return records
}

// extractGridShift builds one record from an a.shift link.
func (e *Extractor) extractGridShift(link *html.Node, day, date string, colIdx int) domain.Shift {
	unavailable := hasClass(link, "unavail")
	hasWorker := hasClass(link, "worker")
	bonus := hasClass(link, "carrot")

	timeRaw := ""
	if timeEl := findFirst(link, func(n *html.Node) bool { return isElement(n, "b") }); timeEl != nil {
		timeRaw = textContent(timeEl)
	}

	// Committee is the link text minus the time, stripped of glyphs and the
	// leading training marker.
	committee := textContent(link)
	if timeRaw != "" {
		committee = strings.ReplaceAll(committee, timeRaw, "")
	}
	committee = StripDecoration(committee)
	if committee == "" {
		committee = "General"
	}

	var status domain.ShiftStatus
	slots := ""
	switch {
	case unavailable:
		status, slots = domain.StatusUnavailable, "0"
	case hasWorker:
		status, slots = domain.StatusFilled, "0"
	default:
		status, slots = domain.StatusAvailable, "1"
	}

	var descParts []string
	if bonus {
		descParts = append(descParts, "Bonus shift (extra credit)")
	}
	if unavailable {
		descParts = append(descParts, "Currently unavailable")
	}
	if hasWorker {
		descParts = append(descParts, "Worker assigned")
	}

	return domain.Shift{
		Day:         day,
		Date:        date,
		TimeRaw:     timeRaw,
		TimeSlot:    ClassifyTimeSlot(timeRaw),
		Committee:   committee,
		Description: truncate(strings.Join(descParts, " — "), maxDescriptionLen),
		SignupURL:   e.resolveURL(getAttr(link, "href")),
		Slots:       slots,
		Status:      status,
		Bonus:       bonus,
		Source:      fmt.Sprintf("grid column %d", colIdx),
	}
}
