package midtrans

import "testing"

func TestVerifySignature(t *testing.T) {
	const serverKey = "SB-Mid-server-test"

	n := Notification{
		OrderID:     "ORDER-1700000000000-ab12",
		StatusCode:  "200",
		GrossAmount: "100000.00",
	}
	n.SignatureKey = NotificationSignature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)

	if !n.VerifySignature(serverKey) {
		t.Error("expected signature to verify with matching server key")
	}

	t.Run("wrong server key", func(t *testing.T) {
		if n.VerifySignature("SB-Mid-server-other") {
			t.Error("expected verification to fail with a different server key")
		}
	})

	t.Run("tampered amount", func(t *testing.T) {
		tampered := n
		tampered.GrossAmount = "1.00"
		if tampered.VerifySignature(serverKey) {
			t.Error("expected verification to fail after payload tampering")
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		unsigned := n
		unsigned.SignatureKey = ""
		if unsigned.VerifySignature(serverKey) {
			t.Error("expected verification to fail without signature_key")
		}
	})
}
