package model

import "time"

// ReportNote is attached to every report to explain the teleop model.
const ReportNote = "Teleop prediction adjusted for Active/Inactive hub schedule."

// AllianceReport is the forecast for one alliance.
type AllianceReport struct {
	Teams  Roster  `json:"teams"`
	Auto   Range   `json:"auto"`
	Teleop Range   `json:"teleop"`
	Total  Range   `json:"total"`
	WinPct float64 `json:"win_pct"`
	// Spread is the variance based uncertainty of raw match totals. It is
	// informational and never feeds WinPct.
	Spread float64 `json:"spread"`
}

// Report is the full forecast of one upcoming match.
type Report struct {
	ID          string         `json:"id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Red         AllianceReport `json:"red"`
	Blue        AllianceReport `json:"blue"`
	AutoWinner  Outcome        `json:"-"`
	Winner      string         `json:"auto_winner"`
	Schedule    string         `json:"schedule"`
	Note        string         `json:"note"`
}

// Alliance returns the report of the requested side.
func (r Report) Alliance(a Alliance) AllianceReport {
	if a == Blue {
		return r.Blue
	}
	return r.Red
}
