package reminder

const (
	// DefaultCallThreshold is the no-show rate above which the patient gets a call.
	DefaultCallThreshold = 0.45

	// CallEffect and SMSEffect scale the no-show probability after contact.
	CallEffect = 0.40
	SMSEffect  = 0.75

	// Patients below LowRiskRate booked fewer than ShortLeadDays ahead get no reminder.
	LowRiskRate   = 0.1
	ShortLeadDays = 5
)

// Policy is the rule stub standing in for the contextual bandit.
type Policy struct {
	CallThreshold float64
}

// DefaultPolicy uses DefaultCallThreshold.
func DefaultPolicy() Policy {
	return Policy{CallThreshold: DefaultCallThreshold}
}

// Decide applies the rules in order; the first match wins. All comparisons
// are strict, so a value on a threshold falls through to the next rule.
func (p Policy) Decide(req Request) Result {
	base := req.HistoricalNoShowRate
	action, final := ActionSMS, base*SMSEffect

	switch {
	case base > p.CallThreshold:
		action, final = ActionCall, base*CallEffect
	case base < LowRiskRate && req.LeadTimeDays < ShortLeadDays:
		action, final = ActionNone, base
	}

	return Result{
		PatientID:       req.PatientID,
		BestAction:      action,
		ActionClass:     action.Class(),
		BaseNoShowProb:  base,
		FinalNoShowProb: final,
	}
}
