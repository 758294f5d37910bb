package model

// AutoProfile summarises a team's autonomous performance.
type AutoProfile struct {
	Team           TeamID  `json:"team"`
	Reliability    float64 `json:"reliability"`
	ClimbFrequency float64 `json:"climb_frequency"`
	Points         Range   `json:"points"`
	MaxScore       float64 `json:"max_score"`
	Matches        int     `json:"matches"`
}

// TeleopProfile summarises a team's driver-controlled throughput.
// Rates are fuel per active second; Endgame is climb points.
type TeleopProfile struct {
	Team          TeamID  `json:"team"`
	Rates         Range   `json:"rates"`
	Endgame       Range   `json:"endgame"`
	DefenseRating float64 `json:"defense_rating"`
	Matches       int     `json:"matches"`
}

// Rate returns the fuel rate of the scenario.
func (p TeleopProfile) Rate(s Scenario) float64 { return s.Pick(p.Rates) }

// EndgamePoints returns the climb points of the scenario.
func (p TeleopProfile) EndgamePoints(s Scenario) float64 { return s.Pick(p.Endgame) }
