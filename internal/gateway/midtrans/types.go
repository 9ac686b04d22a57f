package midtrans

// Wire types for the Midtrans Core API v2. Field names follow the gateway's
// JSON contract; everything optional is omitempty so raw responses can be
// merged into caller-facing envelopes without noise.

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type ItemDetail struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type CreditCardCharge struct {
	TokenID        string `json:"token_id"`
	Authentication bool   `json:"authentication"`
	Secure         bool   `json:"secure"`
	SaveTokenID    bool   `json:"save_token_id"`
}

type BankTransferCharge struct {
	Bank string `json:"bank"`
}

type GopayCharge struct {
	EnableCallback bool   `json:"enable_callback"`
	CallbackURL    string `json:"callback_url,omitempty"`
}

type QrisCharge struct {
	Acquirer string `json:"acquirer"`
}

type ChargeRequest struct {
	PaymentType        string              `json:"payment_type"`
	TransactionDetails TransactionDetails  `json:"transaction_details"`
	ItemDetails        []ItemDetail        `json:"item_details,omitempty"`
	CustomerDetails    *CustomerDetails    `json:"customer_details,omitempty"`
	CreditCard         *CreditCardCharge   `json:"credit_card,omitempty"`
	BankTransfer       *BankTransferCharge `json:"bank_transfer,omitempty"`
	Gopay              *GopayCharge        `json:"gopay,omitempty"`
	Qris               *QrisCharge         `json:"qris,omitempty"`
}

// Action is a named follow-up the gateway returns for push/QR payments
// (deeplink-redirect, generate-qr-code, get-status, ...).
type Action struct {
	Name   string `json:"name"`
	Method string `json:"method,omitempty"`
	URL    string `json:"url"`
}

type VANumber struct {
	Bank     string `json:"bank"`
	VANumber string `json:"va_number"`
}

// ChargeResponse is the gateway's transaction payload, shared by the charge
// and status-query endpoints (the latter additionally carries signature_key).
type ChargeResponse struct {
	StatusCode        string `json:"status_code,omitempty"`
	StatusMessage     string `json:"status_message,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	OrderID           string `json:"order_id,omitempty"`
	GrossAmount       string `json:"gross_amount,omitempty"`
	Currency          string `json:"currency,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	TransactionTime   string `json:"transaction_time,omitempty"`
	TransactionStatus string `json:"transaction_status,omitempty"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	SignatureKey      string `json:"signature_key,omitempty"`

	// credit_card
	MaskedCard             string `json:"masked_card,omitempty"`
	Bank                   string `json:"bank,omitempty"`
	CardType               string `json:"card_type,omitempty"`
	RedirectURL            string `json:"redirect_url,omitempty"`
	ThreeDSStatus          string `json:"three_ds_status,omitempty"`
	ChannelResponseCode    string `json:"channel_response_code,omitempty"`
	ChannelResponseMessage string `json:"channel_response_message,omitempty"`

	// bank_transfer
	VANumbers   []VANumber `json:"va_numbers,omitempty"`
	PaymentCode string     `json:"payment_code,omitempty"`
	BillKey     string     `json:"bill_key,omitempty"`
	BillerCode  string     `json:"biller_code,omitempty"`

	// gopay / qris
	Actions  []Action `json:"actions,omitempty"`
	QRString string   `json:"qr_string,omitempty"`
	Acquirer string   `json:"acquirer,omitempty"`
}

// Notification is the asynchronous status callback the gateway POSTs to us.
// All amounts arrive as strings; signature_key authenticates the sender.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionTime   string `json:"transaction_time"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	SignatureKey      string `json:"signature_key"`
}

type CardTokenRequest struct {
	CardNumber   string
	CardExpMonth string
	CardExpYear  string
	CardCVV      string
}

type CardTokenResponse struct {
	StatusCode    string `json:"status_code,omitempty"`
	StatusMessage string `json:"status_message,omitempty"`
	TokenID       string `json:"token_id,omitempty"`
	Hash          string `json:"hash,omitempty"`
}
