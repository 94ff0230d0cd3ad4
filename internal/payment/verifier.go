package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingFields     = errors.New("order id, payment id and signature are required")
	ErrInvalidSignature  = errors.New("payment signature does not match")
	ErrVerifierNotConfig = errors.New("payment verification secret is not configured")
)

// Confirmation is what the checkout widget hands back to the client after
// a successful payment.
type Confirmation struct {
	UserID      primitive.ObjectID
	OrderID     string
	PaymentID   string
	Signature   string
	AmountMinor int64
	Currency    string
}

// Verifier turns a checkout confirmation into a domain.VerifiedPayment.
type Verifier interface {
	Verify(ctx context.Context, c Confirmation) (domain.VerifiedPayment, error)
}

// signatureVerifier checks the provider signature:
// hex(HMAC-SHA256(keySecret, order_id + "|" + payment_id)).
type signatureVerifier struct {
	keySecret []byte
}

func NewSignatureVerifier(keySecret string) Verifier {
	return &signatureVerifier{keySecret: []byte(keySecret)}
}

func (v *signatureVerifier) Verify(_ context.Context, c Confirmation) (domain.VerifiedPayment, error) {
	if len(v.keySecret) == 0 {
		return domain.VerifiedPayment{}, ErrVerifierNotConfig
	}
	if c.OrderID == "" || c.PaymentID == "" || c.Signature == "" || c.UserID.IsZero() {
		return domain.VerifiedPayment{}, ErrMissingFields
	}

	expected := Sign(v.keySecret, c.OrderID, c.PaymentID)
	given, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(c.Signature)))
	if err != nil {
		return domain.VerifiedPayment{}, fmt.Errorf("decode signature: %w", ErrInvalidSignature)
	}
	if !hmac.Equal(expected, given) {
		return domain.VerifiedPayment{}, ErrInvalidSignature
	}

	return domain.VerifiedPayment{
		UserID:      c.UserID,
		OrderID:     c.OrderID,
		PaymentID:   c.PaymentID,
		AmountMinor: c.AmountMinor,
		Currency:    c.Currency,
	}, nil
}

// Sign computes the raw signature bytes for an order/payment pair.
func Sign(keySecret []byte, orderID, paymentID string) []byte {
	mac := hmac.New(sha256.New, keySecret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return mac.Sum(nil)
}
