package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

func sampleMatches() []domain.ScoredShift {
	return []domain.ScoredShift{
		{
			Shift: domain.Shift{
				ID:        "shift_001",
				Day:       "Saturday",
				TimeRaw:   "8:00AM",
				TimeSlot:  domain.SlotMorning,
				Committee: "Checkout",
				Slots:     "3",
				SignupURL: "https://members.example-coop.com/services/shifts/42/",
			},
			Score: 95,
			Breakdown: []domain.BreakdownEntry{
				{Factor: "committee", Reason: "Top choice: Checkout (+10%)"},
				{Factor: "day", Reason: "Saturday is a preferred day"},
			},
		},
		{
			Shift: domain.Shift{
				ID:        "shift_002",
				Day:       "Sunday",
				TimeSlot:  domain.SlotEvening,
				Committee: "Receiving",
				Slots:     "1",
			},
			Score: 70,
		},
	}
}

func TestRenderDigest(t *testing.T) {
	html, err := RenderDigest("member@example.com", sampleMatches())
	require.NoError(t, err)

	assert.Contains(t, html, "ShiftMatch")
	assert.Contains(t, html, "member@example.com")
	assert.Contains(t, html, "Checkout")
	assert.Contains(t, html, "Top choice: Checkout (&#43;10%)")
	assert.Contains(t, html, "95%")

	// High scores get the fire badge, lower ones the star.
	assert.Contains(t, html, "#e17055")
	assert.Contains(t, html, "#636e72")
}

func TestRenderDigest_SignupButtonOnlyWhenURLPresent(t *testing.T) {
	html, err := RenderDigest("member@example.com", sampleMatches())
	require.NoError(t, err)

	// One shift has a signup URL, the other does not.
	assert.Equal(t, 1, strings.Count(html, "Claim This Shift"))
}

func TestRenderDigest_TimeSlotFallback(t *testing.T) {
	html, err := RenderDigest("member@example.com", sampleMatches())
	require.NoError(t, err)

	// The second shift has no raw time, so the bucket name is shown.
	assert.Contains(t, html, "Evening")
}

func TestRenderDigest_Empty(t *testing.T) {
	html, err := RenderDigest("member@example.com", nil)
	require.NoError(t, err)
	assert.Contains(t, html, "member@example.com")
}
