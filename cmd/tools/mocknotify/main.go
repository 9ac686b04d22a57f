// mocknotify sends a signed gateway-style notification to a local server, for
// exercising the reconciliation endpoint without a real gateway.
package main

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

type notificationPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	PaymentType       string `json:"payment_type"`
	SignatureKey      string `json:"signature_key"`
}

func main() {
	url := flag.String("url", "http://localhost:8080/api/payment/notification", "Notification URL")
	serverKey := flag.String("server-key", os.Getenv("MIDTRANS_SERVER_KEY"), "Gateway server key used to sign")
	orderID := flag.String("order-id", "", "Order ID (required)")
	status := flag.String("status", "settlement", "transaction_status (capture, settlement, deny, cancel, expire, pending, ...)")
	fraud := flag.String("fraud", "", "fraud_status (accept, challenge, deny)")
	statusCode := flag.String("status-code", "200", "Gateway status_code")
	gross := flag.String("gross", "100000.00", "gross_amount as the gateway formats it")
	paymentType := flag.String("payment-type", "qris", "payment_type")
	transactionID := flag.String("transaction-id", "mock-tx-1", "Gateway transaction_id")
	dryRun := flag.Bool("dry-run", false, "Only print the payload, don't send")

	flag.Parse()

	if *orderID == "" {
		fmt.Fprintln(os.Stderr, "Error: -order-id is required")
		os.Exit(1)
	}
	if *serverKey == "" {
		fmt.Fprintln(os.Stderr, "Error: server key not provided and MIDTRANS_SERVER_KEY not set")
		os.Exit(1)
	}

	payload := notificationPayload{
		OrderID:           *orderID,
		StatusCode:        *statusCode,
		GrossAmount:       *gross,
		TransactionID:     *transactionID,
		TransactionStatus: *status,
		FraudStatus:       *fraud,
		PaymentType:       *paymentType,
	}
	payload.SignatureKey = sign(*orderID, *statusCode, *gross, *serverKey)

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	resp, err := http.Post(*url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func sign(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
