package shifts

import (
	"fmt"
	"math/rand/v2"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

// Sample data used when live extraction finds nothing, so members still see
// a ranked list while the portal is unreachable or its layout changed.

var sampleCommittees = []string{"Receiving", "Stocking", "Checkout", "Produce", "Maintenance"}

var sampleWindows = map[domain.TimeSlot][][2]string{
	domain.SlotMorning:   {{"6:00AM", "8:45AM"}, {"7:00AM", "9:45AM"}, {"8:00AM", "10:45AM"}, {"9:00AM", "11:00AM"}},
	domain.SlotAfternoon: {{"12:00PM", "2:45PM"}, {"1:00PM", "3:45PM"}, {"2:00PM", "4:45PM"}},
	domain.SlotEvening:   {{"5:00PM", "7:45PM"}, {"6:00PM", "8:45PM"}, {"7:00PM", "9:45PM"}},
	domain.SlotOvernight: {{"9:30PM", "12:15AM"}, {"10:00PM", "12:45AM"}},
}

var sampleSlotOrder = []domain.TimeSlot{
	domain.SlotMorning, domain.SlotAfternoon, domain.SlotEvening, domain.SlotOvernight,
}

var sampleDescriptions = []string{
	"Unload deliveries and stock shelves in the walk-in cooler area.",
	"Assist members at checkout lanes and handle returns.",
	"Stock dry goods, dairy, and frozen sections.",
	"Sort and display produce, rotate older stock.",
	"General maintenance: cleaning, minor repairs, recycling.",
	"Process incoming shipments and verify invoices.",
	"Bag groceries and assist elderly/disabled members.",
	"Restock bulk bins and ensure proper labeling.",
	"Floor cleaning, bathroom maintenance, trash removal.",
	"Help with inventory counts and shelf organization.",
}

var sampleSlotCounts = []int{1, 2, 3, 4, 5, 6, 8}

// SampleShifts generates n plausible shift records with the canonical record
// schema. Content is random; IDs follow the usual sequential format.
func SampleShifts(baseOrigin string, n int) []domain.Shift {
	records := make([]domain.Shift, 0, n)
	for i := range n {
		slot := sampleSlotOrder[rand.IntN(len(sampleSlotOrder))]
		window := sampleWindows[slot][rand.IntN(len(sampleWindows[slot]))]

		records = append(records, domain.Shift{
			ID:          nextID(i + 1),
			Day:         domain.DayNames[rand.IntN(len(domain.DayNames))],
			TimeRaw:     window[0] + " - " + window[1],
			TimeSlot:    slot,
			Committee:   sampleCommittees[rand.IntN(len(sampleCommittees))],
			Description: sampleDescriptions[rand.IntN(len(sampleDescriptions))],
			SignupURL:   baseOrigin + "/services/shifts/",
			Slots:       fmt.Sprintf("%d", sampleSlotCounts[rand.IntN(len(sampleSlotCounts))]),
			Source:      "sample",
		})
	}
	return records
}
