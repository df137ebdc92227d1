package trip

// Severity grades how badly a schedule misses expectations.
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeverityWarning Severity = "warning"
	SeveritySevere  Severity = "severe"
)

// Warning types surfaced in a schedule status.
const (
	WarnEmptyDays         = "empty_days"
	WarnUnscheduledPlaces = "unscheduled_places"
	WarnOvertimeDays      = "overtime_days"
	WarnTooManyPlaces     = "too_many_places"
	WarnNoLodging         = "no_lodging"
	WarnError             = "error"
)

// Warning describes one reasonability finding with a user-facing suggestion.
type Warning struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// ScheduleStatus summarizes the reasonability checks for a schedule.
type ScheduleStatus struct {
	IsReasonable bool      `json:"isReasonable"`
	Warnings     []Warning `json:"warnings"`
	Severity     Severity  `json:"severity"`
}

// OKStatus returns a clean status with no warnings.
func OKStatus() ScheduleStatus {
	return ScheduleStatus{IsReasonable: true, Warnings: []Warning{}, Severity: SeverityNormal}
}

// SevereStatus returns a failed status carrying a single warning.
func SevereStatus(w Warning) ScheduleStatus {
	return ScheduleStatus{IsReasonable: false, Warnings: []Warning{w}, Severity: SeveritySevere}
}

var severityRank = map[Severity]int{
	SeverityNormal:  0,
	SeverityWarning: 1,
	SeveritySevere:  2,
}

// Add appends a warning and escalates the status severity, never lowering it.
func (s *ScheduleStatus) Add(w Warning, sev Severity) {
	s.Warnings = append(s.Warnings, w)
	if severityRank[sev] > severityRank[s.Severity] {
		s.Severity = sev
	}
}
