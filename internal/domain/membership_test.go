package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveMembership(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name   string
		record *Membership
		want   MembershipState
	}{
		{"no record", nil, MembershipState{}},
		{"inactive status", &Membership{Status: "cancelled", ExpiresAt: &yesterday}, MembershipState{}},
		{"active no expiry", &Membership{Status: MembershipStatusActive}, MembershipState{HasMembership: true}},
		{"active future", &Membership{Status: MembershipStatusActive, ExpiresAt: &tomorrow}, MembershipState{HasMembership: true, ExpiresAt: &tomorrow}},
		{"active lapsed", &Membership{Status: MembershipStatusActive, ExpiresAt: &yesterday}, MembershipState{IsExpired: true, ExpiresAt: &yesterday}},
		{"expires exactly now", &Membership{Status: MembershipStatusActive, ExpiresAt: &now}, MembershipState{HasMembership: true, ExpiresAt: &now}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveMembership(tt.record, now)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.HasMembership && got.IsExpired)
		})
	}
}

func TestRenewalExpiry(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	thirtyDays := MembershipPlan{ID: "30d", Days: 30}

	inTenDays := now.AddDate(0, 0, 10)
	stacked := RenewalExpiry(&Membership{Status: MembershipStatusActive, ExpiresAt: &inTenDays}, now, thirtyDays)
	assert.Equal(t, now.AddDate(0, 0, 40), stacked)

	yesterday := now.AddDate(0, 0, -1)
	reset := RenewalExpiry(&Membership{Status: MembershipStatusActive, ExpiresAt: &yesterday}, now, thirtyDays)
	assert.Equal(t, now.AddDate(0, 0, 30), reset)

	assert.Equal(t, now.AddDate(0, 0, 30), RenewalExpiry(nil, now, thirtyDays))
	assert.Equal(t, now.AddDate(0, 0, 30), RenewalExpiry(&Membership{Status: MembershipStatusActive}, now, thirtyDays))

	monthly := MembershipPlan{ID: "monthly", Months: 1}
	assert.Equal(t, time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC), RenewalExpiry(nil, now, monthly))
}

func TestMembershipHasPayment(t *testing.T) {
	var none *Membership
	assert.False(t, none.HasPayment("pay_1"))

	m := &Membership{PaymentID: "pay_3", PaymentIDs: []string{"pay_1", "pay_2"}}
	assert.True(t, m.HasPayment("pay_1"))
	assert.True(t, m.HasPayment("pay_3"))
	assert.False(t, m.HasPayment("pay_4"))
}
