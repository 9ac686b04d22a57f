package payments

import (
	"tokobayar.com/app/internal/gateway/midtrans"
	"tokobayar.com/app/internal/shared/apperr"
)

// PaymentMethodRequest carries the method-specific block of a charge request.
// Exactly one variant is expected for the selected payment_type; the others
// stay nil.
type PaymentMethodRequest struct {
	CreditCard   *CreditCardRequest
	BankTransfer *BankTransferRequest
	Gopay        *GopayRequest
	Qris         *QrisRequest
}

type CreditCardRequest struct {
	TokenID     string `json:"token_id"`
	SaveTokenID bool   `json:"save_token_id"`
}

type BankTransferRequest struct {
	Bank string `json:"bank"`
}

type GopayRequest struct {
	CallbackURL string `json:"callback_url"`
}

type QrisRequest struct {
	Acquirer string `json:"acquirer"`
}

// MethodOptions holds per-deployment adapter defaults.
type MethodOptions struct {
	GopayCallbackURL string
	QrisAcquirer     string
	Banks            []string
}

// buildMethodCharge attaches the method-specific payload to the gateway
// request. Validation failures happen here, before any network call; the
// function has no side effects beyond mutating req.
func buildMethodCharge(req *midtrans.ChargeRequest, paymentType string, m PaymentMethodRequest, opts MethodOptions) error {
	switch paymentType {
	case "credit_card":
		if m.CreditCard == nil || m.CreditCard.TokenID == "" {
			return apperr.InvalidErr("Credit card token is required", map[string]string{"credit_card.token_id": "required"})
		}
		req.CreditCard = &midtrans.CreditCardCharge{
			TokenID: m.CreditCard.TokenID,
			// 3-D Secure is always on by policy.
			Authentication: true,
			Secure:         true,
			SaveTokenID:    m.CreditCard.SaveTokenID,
		}

	case "bank_transfer":
		if m.BankTransfer == nil || m.BankTransfer.Bank == "" {
			return apperr.InvalidErr("Bank selection is required", map[string]string{"bank_transfer.bank": "required"})
		}
		if !contains(opts.Banks, m.BankTransfer.Bank) {
			return apperr.InvalidErr("Unsupported bank: "+m.BankTransfer.Bank, map[string]string{"bank_transfer.bank": "unsupported"})
		}
		req.BankTransfer = &midtrans.BankTransferCharge{Bank: m.BankTransfer.Bank}

	case "gopay":
		callback := opts.GopayCallbackURL
		if m.Gopay != nil && m.Gopay.CallbackURL != "" {
			callback = m.Gopay.CallbackURL
		}
		req.Gopay = &midtrans.GopayCharge{EnableCallback: true, CallbackURL: callback}

	case "qris":
		acquirer := opts.QrisAcquirer
		if m.Qris != nil && m.Qris.Acquirer != "" {
			acquirer = m.Qris.Acquirer
		}
		req.Qris = &midtrans.QrisCharge{Acquirer: acquirer}

	default:
		return apperr.UnsupportedErr("Unsupported payment type: " + paymentType)
	}
	return nil
}

// PaymentDetails is the normalized, method-agnostic blob persisted with each
// transaction. Only the fields relevant to the charged method are set.
type PaymentDetails struct {
	TransactionID     string `json:"transaction_id,omitempty"`
	TransactionStatus string `json:"transaction_status,omitempty"`
	TransactionTime   string `json:"transaction_time,omitempty"`
	Currency          string `json:"currency,omitempty"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	GrossAmount       string `json:"gross_amount,omitempty"`

	// credit_card
	CardToken              string `json:"card_token,omitempty"`
	MaskedCard             string `json:"masked_card,omitempty"`
	Bank                   string `json:"bank,omitempty"`
	CardType               string `json:"card_type,omitempty"`
	RedirectURL            string `json:"redirect_url,omitempty"`
	ThreeDSStatus          string `json:"three_ds_status,omitempty"`
	ChannelResponseCode    string `json:"channel_response_code,omitempty"`
	ChannelResponseMessage string `json:"channel_response_message,omitempty"`

	// bank_transfer
	VANumbers   []midtrans.VANumber `json:"va_numbers,omitempty"`
	PaymentCode string              `json:"payment_code,omitempty"`
	BillKey     string              `json:"bill_key,omitempty"`
	BillerCode  string              `json:"biller_code,omitempty"`

	// gopay
	QRCodeURL   string `json:"qr_code_url,omitempty"`
	DeeplinkURL string `json:"deeplink_url,omitempty"`
	StatusURL   string `json:"status_url,omitempty"`

	// qris
	QRString string            `json:"qr_string,omitempty"`
	Acquirer string            `json:"acquirer,omitempty"`
	Actions  []midtrans.Action `json:"actions,omitempty"`
}

// normalizeChargeResponse extracts the method-specific details from a gateway
// charge response. Missing named actions are optional fields, not errors.
func normalizeChargeResponse(paymentType string, m PaymentMethodRequest, resp *midtrans.ChargeResponse) PaymentDetails {
	d := PaymentDetails{
		TransactionID:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
		TransactionTime:   resp.TransactionTime,
		Currency:          resp.Currency,
		FraudStatus:       resp.FraudStatus,
		GrossAmount:       resp.GrossAmount,
	}

	switch paymentType {
	case "credit_card":
		if m.CreditCard != nil {
			d.CardToken = m.CreditCard.TokenID
		}
		d.MaskedCard = resp.MaskedCard
		d.Bank = resp.Bank
		d.CardType = resp.CardType
		d.RedirectURL = resp.RedirectURL
		d.ThreeDSStatus = resp.ThreeDSStatus
		d.ChannelResponseCode = resp.ChannelResponseCode
		d.ChannelResponseMessage = resp.ChannelResponseMessage

	case "bank_transfer":
		d.VANumbers = resp.VANumbers
		d.PaymentCode = resp.PaymentCode
		d.BillKey = resp.BillKey
		d.BillerCode = resp.BillerCode

	case "gopay":
		d.QRCodeURL = actionURL(resp.Actions, "generate-qr-code")
		d.DeeplinkURL = actionURL(resp.Actions, "deeplink-redirect")
		d.StatusURL = actionURL(resp.Actions, "get-status")

	case "qris":
		d.QRString = resp.QRString
		d.Acquirer = resp.Acquirer
		d.Actions = resp.Actions
	}

	return d
}

func actionURL(actions []midtrans.Action, name string) string {
	for _, a := range actions {
		if a.Name == name {
			return a.URL
		}
	}
	return ""
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
