package reminder

import (
	"math"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
)

// Action is the contact channel chosen for a patient.
type Action string

const (
	ActionSMS  Action = "sms"
	ActionCall Action = "call"
	ActionNone Action = "none"
)

// Class returns the tag class the page styles the action with.
func (a Action) Class() string {
	return "tag-" + string(a)
}

// Request is one patient to decide a reminder for.
type Request struct {
	PatientID            string  `json:"patient_id,omitempty"`
	HistoricalNoShowRate float64 `json:"historical_no_show_rate"`
	LeadTimeDays         int     `json:"lead_time_days"`
}

// Validate rejects rates outside [0,1] and negative lead times.
func (r *Request) Validate() error {
	if math.IsNaN(r.HistoricalNoShowRate) || r.HistoricalNoShowRate < 0 || r.HistoricalNoShowRate > 1 {
		return decision.Invalid("historical_no_show_rate", "must be within [0,1], got %v", r.HistoricalNoShowRate)
	}
	if r.LeadTimeDays < 0 {
		return decision.Invalid("lead_time_days", "must not be negative, got %d", r.LeadTimeDays)
	}
	return nil
}

// Result is the reminder decision for one patient.
type Result struct {
	PatientID       string  `json:"patient_id,omitempty"`
	BestAction      Action  `json:"best_action"`
	ActionClass     string  `json:"action_class"`
	BaseNoShowProb  float64 `json:"base_no_show_prob"`
	FinalNoShowProb float64 `json:"final_no_show_prob"`
}
