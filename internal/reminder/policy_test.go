package reminder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
)

func TestPolicyScenarios(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		name      string
		req       Request
		action    Action
		wantFinal float64
	}{
		{"high risk gets a call", Request{HistoricalNoShowRate: 0.5, LeadTimeDays: 10}, ActionCall, 0.2},
		{"low risk short lead gets nothing", Request{HistoricalNoShowRate: 0.05, LeadTimeDays: 2}, ActionNone, 0.05},
		{"default is sms", Request{HistoricalNoShowRate: 0.2, LeadTimeDays: 20}, ActionSMS, 0.15},
		{"low risk long lead gets sms", Request{HistoricalNoShowRate: 0.05, LeadTimeDays: 12}, ActionSMS, 0.0375},
		{"zero risk zero lead", Request{HistoricalNoShowRate: 0, LeadTimeDays: 0}, ActionNone, 0},
		{"certain no-show", Request{HistoricalNoShowRate: 1, LeadTimeDays: 1}, ActionCall, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Decide(tt.req)
			assert.Equal(t, tt.action, got.BestAction)
			assert.Equal(t, tt.action.Class(), got.ActionClass)
			assert.Equal(t, tt.req.HistoricalNoShowRate, got.BaseNoShowProb)
			assert.InDelta(t, tt.wantFinal, got.FinalNoShowProb, 1e-12)
		})
	}
}

func TestPolicyBoundariesFallThrough(t *testing.T) {
	p := DefaultPolicy()

	atCall := p.Decide(Request{HistoricalNoShowRate: DefaultCallThreshold, LeadTimeDays: 10})
	assert.Equal(t, ActionSMS, atCall.BestAction, "rate equal to the call threshold is not a call")

	atLowRisk := p.Decide(Request{HistoricalNoShowRate: LowRiskRate, LeadTimeDays: 1})
	assert.Equal(t, ActionSMS, atLowRisk.BestAction, "rate equal to the low-risk bound still gets sms")

	atLead := p.Decide(Request{HistoricalNoShowRate: 0.01, LeadTimeDays: ShortLeadDays})
	assert.Equal(t, ActionSMS, atLead.BestAction, "lead time equal to the bound still gets sms")

	justAbove := p.Decide(Request{HistoricalNoShowRate: math.Nextafter(DefaultCallThreshold, 1), LeadTimeDays: 10})
	assert.Equal(t, ActionCall, justAbove.BestAction)
}

func TestPolicyCustomThreshold(t *testing.T) {
	p := Policy{CallThreshold: 0.4}
	assert.Equal(t, ActionCall, p.Decide(Request{HistoricalNoShowRate: 0.42, LeadTimeDays: 3}).BestAction)
	assert.Equal(t, ActionSMS, DefaultPolicy().Decide(Request{HistoricalNoShowRate: 0.42, LeadTimeDays: 3}).BestAction)
}

func TestPolicyNeverRaisesRisk(t *testing.T) {
	p := DefaultPolicy()
	src := decision.NewSource(7)
	for i := 0; i < 10000; i++ {
		req := Request{HistoricalNoShowRate: src.Float64(), LeadTimeDays: src.IntN(60)}
		got := p.Decide(req)
		if got.FinalNoShowProb > got.BaseNoShowProb {
			t.Fatalf("final %v above base %v for %+v", got.FinalNoShowProb, got.BaseNoShowProb, req)
		}
		switch {
		case req.HistoricalNoShowRate > p.CallThreshold:
			assert.Equal(t, ActionCall, got.BestAction)
			assert.Equal(t, req.HistoricalNoShowRate*CallEffect, got.FinalNoShowProb)
		case req.HistoricalNoShowRate < LowRiskRate && req.LeadTimeDays < ShortLeadDays:
			assert.Equal(t, ActionNone, got.BestAction)
			assert.Equal(t, req.HistoricalNoShowRate, got.FinalNoShowProb)
		default:
			assert.Equal(t, ActionSMS, got.BestAction)
			assert.Equal(t, req.HistoricalNoShowRate*SMSEffect, got.FinalNoShowProb)
		}
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"valid", Request{HistoricalNoShowRate: 0.3, LeadTimeDays: 4}, false},
		{"bounds inclusive", Request{HistoricalNoShowRate: 1, LeadTimeDays: 0}, false},
		{"negative rate", Request{HistoricalNoShowRate: -0.01, LeadTimeDays: 4}, true},
		{"rate above one", Request{HistoricalNoShowRate: 1.2, LeadTimeDays: 4}, true},
		{"nan rate", Request{HistoricalNoShowRate: math.NaN(), LeadTimeDays: 4}, true},
		{"infinite rate", Request{HistoricalNoShowRate: math.Inf(1), LeadTimeDays: 4}, true},
		{"negative lead", Request{HistoricalNoShowRate: 0.3, LeadTimeDays: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, decision.IsValidation(err), "expected validation error, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
