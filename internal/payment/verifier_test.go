package payment

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSignatureVerifier_Verify(t *testing.T) {
	secret := "test_key_secret"
	v := NewSignatureVerifier(secret)
	userID := primitive.NewObjectID()

	sig := hex.EncodeToString(Sign([]byte(secret), "order_1", "pay_1"))
	verified, err := v.Verify(context.Background(), Confirmation{
		UserID: userID, OrderID: "order_1", PaymentID: "pay_1", Signature: sig, AmountMinor: 39900, Currency: "INR",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, verified.UserID)
	assert.Equal(t, "pay_1", verified.PaymentID)
	assert.Equal(t, int64(39900), verified.AmountMinor)

	_, err = v.Verify(context.Background(), Confirmation{
		UserID: userID, OrderID: "order_1", PaymentID: "pay_2", Signature: sig,
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = v.Verify(context.Background(), Confirmation{
		UserID: userID, OrderID: "order_1", PaymentID: "pay_1", Signature: "not-hex",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = v.Verify(context.Background(), Confirmation{UserID: userID, OrderID: "order_1"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestSignatureVerifier_NoSecret(t *testing.T) {
	_, err := NewSignatureVerifier("").Verify(context.Background(), Confirmation{})
	assert.ErrorIs(t, err, ErrVerifierNotConfig)
}

func TestSign_DependsOnBothIDs(t *testing.T) {
	key := []byte("key")
	a := hex.EncodeToString(Sign(key, "order_1", "pay_1"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, hex.EncodeToString(Sign(key, "order_1", "pay_1")))
	assert.NotEqual(t, a, hex.EncodeToString(Sign(key, "order_1|pay", "_1")))
	assert.NotEqual(t, a, hex.EncodeToString(Sign([]byte("other"), "order_1", "pay_1")))
}
