package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// paymentSignature recomputes the signature the gateway attaches to a
// completed checkout: hex(HMAC-SHA256(secret, "<orderID>|<paymentID>")).
func paymentSignature(secret []byte, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature compares in constant time. The signature match is the sole
// authority for marking an order paid.
func verifySignature(secret []byte, gatewayOrderID, gatewayPaymentID, provided string) bool {
	expected := paymentSignature(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(provided))
}
