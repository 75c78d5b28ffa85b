package reminder

import (
	"fmt"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
)

const (
	minPatientNumber = 10000
	maxPatientNumber = 99999
	maxSimulatedRate = 0.6
	maxLeadTimeDays  = 30
)

// PatientGenerator invents the patients of the live feed.
type PatientGenerator struct {
	src decision.Source
}

// NewPatientGenerator draws patients from src.
func NewPatientGenerator(src decision.Source) *PatientGenerator {
	return &PatientGenerator{src: src}
}

// Next returns a patient with a no-show rate in [0, 0.6) and a lead time of
// 1 to 30 days.
func (g *PatientGenerator) Next() Request {
	return Request{
		PatientID:            fmt.Sprintf("P%d", minPatientNumber+g.src.IntN(maxPatientNumber-minPatientNumber)),
		HistoricalNoShowRate: decision.Uniform(g.src, 0, maxSimulatedRate),
		LeadTimeDays:         g.src.IntN(maxLeadTimeDays) + 1,
	}
}
