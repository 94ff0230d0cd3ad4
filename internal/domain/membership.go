package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipStatusActive is the only stored status that can grant access.
const MembershipStatusActive = "active"

// Membership is the single stored membership row of a user.
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Status    string             `bson:"status" json:"status"`
	PlanID    string             `bson:"planId,omitempty" json:"planId,omitempty"`
	ExpiresAt *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	PaymentID string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	OrderID   string             `bson:"orderId,omitempty" json:"orderId,omitempty"`

	// PaymentIDs lists every payment already applied to this row.
	PaymentIDs []string  `bson:"paymentIds,omitempty" json:"-"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasPayment reports whether paymentID was already applied.
func (m *Membership) HasPayment(paymentID string) bool {
	if m == nil {
		return false
	}
	if m.PaymentID == paymentID {
		return true
	}
	for _, id := range m.PaymentIDs {
		if id == paymentID {
			return true
		}
	}
	return false
}

// MembershipState is derived from a Membership and the current time; it is
// never stored. HasMembership and IsExpired are never both true.
type MembershipState struct {
	HasMembership bool       `json:"hasMembership"`
	IsExpired     bool       `json:"isExpired"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// DeriveMembership computes the access state of m at now. A nil record or a
// non-active status means no membership; "expired" is reserved for an active
// record whose expiry has passed.
func DeriveMembership(m *Membership, now time.Time) MembershipState {
	if m == nil || m.Status != MembershipStatusActive {
		return MembershipState{}
	}
	if m.ExpiresAt != nil && m.ExpiresAt.Before(now) {
		return MembershipState{IsExpired: true, ExpiresAt: m.ExpiresAt}
	}
	return MembershipState{HasMembership: true, ExpiresAt: m.ExpiresAt}
}

// MembershipPlan is a purchasable duration.
type MembershipPlan struct {
	ID          string `mapstructure:"id" json:"id"`
	Name        string `mapstructure:"name" json:"name"`
	Months      int    `mapstructure:"months" json:"months"`
	Days        int    `mapstructure:"days" json:"days"`
	AmountMinor int64  `mapstructure:"amount_minor" json:"amountMinor"`
	Currency    string `mapstructure:"currency" json:"currency"`
}

// Extend adds the plan's duration to t. Month overflow normalises the way
// time.AddDate does (Jan 31 + 1 month = Mar 3 or Mar 2).
func (p MembershipPlan) Extend(t time.Time) time.Time {
	return t.AddDate(0, p.Months, p.Days)
}

// RenewalExpiry computes the new expiry after buying plan at now. A still
// running membership is extended from its current expiry; anything else
// (none, lapsed, no expiry set) starts from now.
func RenewalExpiry(current *Membership, now time.Time, plan MembershipPlan) time.Time {
	base := now
	if current != nil && current.ExpiresAt != nil && current.ExpiresAt.After(now) {
		base = *current.ExpiresAt
	}
	return plan.Extend(base)
}

// VerifiedPayment is proof that a payment was checked against the payment
// provider. Only the payment package constructs it outside of tests.
type VerifiedPayment struct {
	UserID      primitive.ObjectID
	OrderID     string
	PaymentID   string
	AmountMinor int64
	Currency    string
}

const (
	OrderStatusCreated   = "created"
	OrderStatusCompleted = "completed"
)

// Order is one checkout. It is created with the plan and price before the
// user pays, and completed with the payment id once the payment is verified.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	OrderID     string             `bson:"orderId" json:"orderId"`
	PaymentID   string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	PlanID      string             `bson:"planId" json:"planId"`
	AmountMinor int64              `bson:"amountMinor" json:"amountMinor"`
	Currency    string             `bson:"currency" json:"currency"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
