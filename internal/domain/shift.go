// Package domain contains the core ShiftMatch domain models.
package domain

// TimeSlot is the coarse time-of-day bucket a shift falls into.
type TimeSlot string

// Time-of-day buckets, derived from the raw shift time.
const (
	SlotMorning   TimeSlot = "Morning"
	SlotAfternoon TimeSlot = "Afternoon"
	SlotEvening   TimeSlot = "Evening"
	SlotOvernight TimeSlot = "Overnight"
)

// ShiftStatus describes whether a shift can still be claimed.
// Only the grid page layout exposes this; table-layout shifts leave it empty.
type ShiftStatus string

// Shift statuses reported by the grid layout.
const (
	StatusAvailable   ShiftStatus = "available"
	StatusFilled      ShiftStatus = "filled"
	StatusUnavailable ShiftStatus = "unavailable"
)

// Shift is the canonical work-shift record produced by the extraction
// pipeline, independent of which page layout it came from.
type Shift struct {
	ID          string      `json:"id" doc:"Extraction-scoped identifier (shift_001, shift_002, ...)"`
	Day         string      `json:"day" doc:"Full weekday name, or Unknown"`
	Date        string      `json:"date,omitempty" doc:"Calendar date (grid layout only)"`
	TimeRaw     string      `json:"time_raw,omitempty" doc:"Time text as found on the page"`
	TimeSlot    TimeSlot    `json:"time_slot" doc:"Morning, Afternoon, Evening, or Overnight"`
	Committee   string      `json:"committee" doc:"Work committee, General when unrecognized"`
	Description string      `json:"description,omitempty" doc:"Free text, at most 200 characters"`
	SignupURL   string      `json:"signup_url,omitempty" doc:"Absolute claim URL, empty when none found"`
	Slots       string      `json:"slots,omitempty" doc:"Open slot count as text"`
	Status      ShiftStatus `json:"status,omitempty" doc:"Availability (grid layout only)"`
	Bonus       bool        `json:"is_bonus,omitempty" doc:"Extra-credit shift (grid layout only)"`
	Source      string      `json:"source,omitempty" doc:"Provenance: which table/row or grid column produced the record"`
}

// BreakdownEntry is one human-readable scoring factor explanation.
type BreakdownEntry struct {
	Factor string `json:"factor" doc:"Scoring factor name"`
	Reason string `json:"reason" doc:"One-line explanation of the contribution"`
}

// ScoredShift pairs a shift with its match score and the per-factor
// explanation, in the fixed factor order committee, day, time, slots, late.
type ScoredShift struct {
	Shift     Shift            `json:"shift"`
	Score     int              `json:"score" doc:"Match score, clamped to [0,120]"`
	Breakdown []BreakdownEntry `json:"breakdown"`
}

// Reason returns the explanation for a factor, or "" when the factor did not
// contribute an entry (only the late factor is ever absent).
func (s *ScoredShift) Reason(factor string) string {
	for _, e := range s.Breakdown {
		if e.Factor == factor {
			return e.Reason
		}
	}
	return ""
}

// DayNames lists the canonical weekday names in normalization order.
var DayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DefaultCommittees is the recognized committee catalog consulted by fuzzy
// committee matching. Deployments may swap it; matching logic never hard-wires
// these names.
var DefaultCommittees = []string{
	"Receiving", "Stocking", "Checkout", "Produce", "Maintenance",
	"Food Processing", "Office", "Childcare", "Orientation", "Inventory",
	"Shopping", "Cashier", "FTOP",
}
