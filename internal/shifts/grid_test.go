package shifts

import (
	"strings"
	"testing"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

const gridPage = `
<html><body>
<div class="grid-container">
	<div class="col">
		<p><b>Sat&nbsp;2/14/2026</b> B week</p>
		<a class="shift" href="/services/shift_claim/101/"><b>6:30pm</b> Bathroom &#x1F6BD;</a>
		<a class="shift unavail" href="/services/shift_claim/102/"><b>7:00am</b> Receiving</a>
		<a class="shift worker" href="/services/shift_claim/103/"><b>1:00pm</b> Checkout</a>
		<a class="shift carrot" href="/services/shift_claim/104/"><b>9:30pm</b> &#x1F955; Stocking</a>
	</div>
	<div class="col">
		<p>no date here</p>
		<a class="shift" href=""><b>8:00am</b> ** Office</a>
	</div>
</div>
</body></html>`

func TestGridStrategy(t *testing.T) {
	records, err := testExtractor(t).Extract(gridPage)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}

	// Plain available shift with decorated committee text.
	r := records[0]
	if r.ID != "shift_001" {
		t.Errorf("ID = %q, want shift_001", r.ID)
	}
	if r.Day != "Saturday" || r.Date != "2/14/2026" {
		t.Errorf("Day/Date = %q/%q, want Saturday/2/14/2026", r.Day, r.Date)
	}
	if r.TimeRaw != "6:30pm" || r.TimeSlot != domain.SlotEvening {
		t.Errorf("TimeRaw/TimeSlot = %q/%q", r.TimeRaw, r.TimeSlot)
	}
	if r.Committee != "Bathroom" {
		t.Errorf("Committee = %q, want Bathroom", r.Committee)
	}
	if r.Status != domain.StatusAvailable || r.Slots != "1" {
		t.Errorf("Status/Slots = %q/%q, want available/1", r.Status, r.Slots)
	}
	if r.SignupURL != testOrigin+"/services/shift_claim/101/" {
		t.Errorf("SignupURL = %q", r.SignupURL)
	}
	if r.Description != "" {
		t.Errorf("Description = %q, want empty", r.Description)
	}

	// Unavailable shift.
	r = records[1]
	if r.Status != domain.StatusUnavailable || r.Slots != "0" {
		t.Errorf("unavail Status/Slots = %q/%q", r.Status, r.Slots)
	}
	if !strings.Contains(r.Description, "Currently unavailable") {
		t.Errorf("unavail Description = %q", r.Description)
	}

	// Worker-assigned shift.
	r = records[2]
	if r.Status != domain.StatusFilled || r.Slots != "0" {
		t.Errorf("worker Status/Slots = %q/%q", r.Status, r.Slots)
	}
	if !strings.Contains(r.Description, "Worker assigned") {
		t.Errorf("worker Description = %q", r.Description)
	}

	// Bonus shift.
	r = records[3]
	if !r.Bonus {
		t.Error("carrot-flagged shift should be marked bonus")
	}
	if !strings.Contains(r.Description, "Bonus shift (extra credit)") {
		t.Errorf("bonus Description = %q", r.Description)
	}
	if r.Committee != "Stocking" {
		t.Errorf("bonus Committee = %q, want Stocking", r.Committee)
	}
	if r.TimeSlot != domain.SlotOvernight {
		t.Errorf("bonus TimeSlot = %q, want Overnight", r.TimeSlot)
	}

	// Headerless column: Unknown day, empty date and signup URL, training
	// marker stripped from the committee.
	r = records[4]
	if r.Day != "Unknown" || r.Date != "" {
		t.Errorf("second column Day/Date = %q/%q, want Unknown/empty", r.Day, r.Date)
	}
	if r.Committee != "Office" {
		t.Errorf("second column Committee = %q, want Office", r.Committee)
	}
	if r.SignupURL != "" {
		t.Errorf("second column SignupURL = %q, want empty", r.SignupURL)
	}
}

func TestGridStrategyNonBreakingSpaces(t *testing.T) {
	// The portal separates tokens with &nbsp;, which \s never matches.
	page := `
	<div class="grid-container">
		<div class="col">
			<p><b>Tue&nbsp;3/3/2026</b></p>
			<a class="shift" href="/x/"><b>6:30&nbsp;pm</b>&nbsp;Produce</a>
		</div>
	</div>`

	records, err := testExtractor(t).Extract(page)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Day != "Tuesday" || r.Date != "3/3/2026" {
		t.Errorf("Day/Date = %q/%q, want Tuesday/3/3/2026", r.Day, r.Date)
	}
	if r.TimeSlot != domain.SlotEvening {
		t.Errorf("TimeSlot = %q, want Evening", r.TimeSlot)
	}
	if r.Committee != "Produce" {
		t.Errorf("Committee = %q, want Produce", r.Committee)
	}
}

func TestGridStrategyUnavailableBeatsWorker(t *testing.T) {
	page := `
	<div class="grid-container">
		<div class="col">
			<p><b>Mon 3/2/2026</b></p>
			<a class="shift unavail worker" href="/x/"><b>2:00pm</b> Produce</a>
		</div>
	</div>`

	records, err := testExtractor(t).Extract(page)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Status != domain.StatusUnavailable {
		t.Errorf("Status = %q, want unavailable to win over worker", r.Status)
	}
	if !strings.Contains(r.Description, "Currently unavailable") || !strings.Contains(r.Description, "Worker assigned") {
		t.Errorf("Description = %q, want both flags mentioned", r.Description)
	}
	if r.Description != "Currently unavailable — Worker assigned" {
		t.Errorf("Description = %q, want fixed join order", r.Description)
	}
}
