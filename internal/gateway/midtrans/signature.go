package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// NotificationSignature computes the signature the gateway attaches to
// notifications: sha512(order_id + status_code + gross_amount + server_key).
func NotificationSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature reports whether the notification's signature_key matches
// the given server key. Comparison is constant-time.
func (n *Notification) VerifySignature(serverKey string) bool {
	if n.SignatureKey == "" {
		return false
	}
	want := NotificationSignature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(n.SignatureKey), []byte(want)) == 1
}
