package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentSignature(t *testing.T) {
	secret := []byte("k3y-s3cret")

	sig := paymentSignature(secret, "order_abc", "pay_def")

	assert.Len(t, sig, 64)
	assert.Equal(t, sig, paymentSignature(secret, "order_abc", "pay_def"))
	assert.NotEqual(t, sig, paymentSignature(secret, "order_abc", "pay_deg"))
	assert.NotEqual(t, sig, paymentSignature([]byte("other"), "order_abc", "pay_def"))

	// The separator keeps (a|bc) and (ab|c) distinct.
	assert.NotEqual(t,
		paymentSignature(secret, "a", "bc"),
		paymentSignature(secret, "ab", "c"),
	)
}

func TestVerifySignature(t *testing.T) {
	secret := []byte("k3y-s3cret")
	sig := paymentSignature(secret, "order_abc", "pay_def")

	assert.True(t, verifySignature(secret, "order_abc", "pay_def", sig))
	assert.False(t, verifySignature(secret, "order_abc", "pay_def", ""))
	assert.False(t, verifySignature([]byte("other"), "order_abc", "pay_def", sig))

	// Any single-character mutation must flip the outcome.
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		assert.False(t, verifySignature(secret, "order_abc", "pay_def", string(mutated)), "mutation at index %d accepted", i)
	}
}
