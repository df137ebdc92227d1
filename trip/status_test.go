package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOKStatus(t *testing.T) {
	s := OKStatus()
	assert.True(t, s.IsReasonable)
	assert.Empty(t, s.Warnings)
	assert.Equal(t, SeverityNormal, s.Severity)
}

func TestSevereStatus(t *testing.T) {
	w := Warning{Type: WarnNoLodging, Message: "no lodging"}
	s := SevereStatus(w)
	assert.False(t, s.IsReasonable)
	assert.Equal(t, []Warning{w}, s.Warnings)
	assert.Equal(t, SeveritySevere, s.Severity)
}

func TestStatusAddEscalates(t *testing.T) {
	s := OKStatus()

	s.Add(Warning{Type: WarnEmptyDays}, SeverityWarning)
	assert.Equal(t, SeverityWarning, s.Severity)

	s.Add(Warning{Type: WarnUnscheduledPlaces}, SeveritySevere)
	assert.Equal(t, SeveritySevere, s.Severity)

	// Severity never drops back down.
	s.Add(Warning{Type: WarnEmptyDays}, SeverityWarning)
	assert.Equal(t, SeveritySevere, s.Severity)
	assert.Len(t, s.Warnings, 3)
}

func TestParseMode(t *testing.T) {
	for _, mode := range Modes {
		parsed, err := ParseMode(string(mode))
		assert.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseMode("helicopter")
	assert.ErrorIs(t, err, ErrInputInvalid)

	_, err = ParseMode("")
	assert.ErrorIs(t, err, ErrInputInvalid)
}
