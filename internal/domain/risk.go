package domain

// RiskStatus is the tier a risk score falls into.
type RiskStatus string

const (
	StatusSafe    RiskStatus = "safe"
	StatusCaution RiskStatus = "caution"
	StatusDanger  RiskStatus = "danger"
)

// Upper bounds (inclusive) of the safe and caution tiers.
const (
	SafeMaxScore    = 30
	CautionMaxScore = 70
)

// RiskAssessment is the flood-risk half of a committed prediction.
type RiskAssessment struct {
	Location   string  `json:"location"`
	RiskScore  int     `json:"risk_score"`
	WaterLevel Decimal `json:"water_level"` // meters
	Comment    string  `json:"comment,omitempty"`
}

// Status returns the tier of the assessment's score.
func (r RiskAssessment) Status() RiskStatus {
	return StatusForScore(r.RiskScore)
}

// StatusForScore maps a 0-100 score onto its tier.
func StatusForScore(score int) RiskStatus {
	switch {
	case score <= SafeMaxScore:
		return StatusSafe
	case score <= CautionMaxScore:
		return StatusCaution
	default:
		return StatusDanger
	}
}
