package payments

import (
	"testing"

	"tokobayar.com/app/internal/gateway/midtrans"
	"tokobayar.com/app/internal/shared/apperr"
)

func baseRequest(paymentType string) *midtrans.ChargeRequest {
	return &midtrans.ChargeRequest{
		PaymentType: paymentType,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     "ORDER-1700000000000-ab12",
			GrossAmount: 100000,
		},
	}
}

func TestBuildMethodCharge_Validation(t *testing.T) {
	tests := []struct {
		name        string
		paymentType string
		method      PaymentMethodRequest
		wantKind    apperr.Kind
	}{
		{"credit card without token", "credit_card", PaymentMethodRequest{CreditCard: &CreditCardRequest{}}, apperr.Invalid},
		{"credit card without block", "credit_card", PaymentMethodRequest{}, apperr.Invalid},
		{"bank transfer without bank", "bank_transfer", PaymentMethodRequest{BankTransfer: &BankTransferRequest{}}, apperr.Invalid},
		{"bank transfer without block", "bank_transfer", PaymentMethodRequest{}, apperr.Invalid},
		{"bank transfer unknown bank", "bank_transfer", PaymentMethodRequest{BankTransfer: &BankTransferRequest{Bank: "hsbc"}}, apperr.Invalid},
		{"unknown payment type", "paypal", PaymentMethodRequest{}, apperr.Unsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := buildMethodCharge(baseRequest(tt.paymentType), tt.paymentType, tt.method, testOptions())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			ae, ok := apperr.As(err)
			if !ok {
				t.Fatalf("expected *apperr.AppError, got %T", err)
			}
			if ae.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", ae.Kind, tt.wantKind)
			}
		})
	}
}

func TestBuildMethodCharge_CreditCard(t *testing.T) {
	req := baseRequest("credit_card")
	m := PaymentMethodRequest{CreditCard: &CreditCardRequest{TokenID: "tok_123", SaveTokenID: true}}

	if err := buildMethodCharge(req, "credit_card", m, testOptions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cc := req.CreditCard
	if cc == nil {
		t.Fatal("credit_card block not set")
	}
	if cc.TokenID != "tok_123" {
		t.Errorf("token id = %q", cc.TokenID)
	}
	if !cc.Authentication || !cc.Secure {
		t.Error("3-D Secure must be enabled on every card charge")
	}
	if !cc.SaveTokenID {
		t.Error("save_token_id not forwarded")
	}
}

func TestBuildMethodCharge_Defaults(t *testing.T) {
	t.Run("gopay callback falls back to config", func(t *testing.T) {
		req := baseRequest("gopay")
		if err := buildMethodCharge(req, "gopay", PaymentMethodRequest{}, testOptions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Gopay == nil || !req.Gopay.EnableCallback {
			t.Fatal("gopay callback not enabled")
		}
		if req.Gopay.CallbackURL != "https://shop.example.com/gopay/callback" {
			t.Errorf("callback url = %q", req.Gopay.CallbackURL)
		}
	})

	t.Run("gopay caller callback wins", func(t *testing.T) {
		req := baseRequest("gopay")
		m := PaymentMethodRequest{Gopay: &GopayRequest{CallbackURL: "https://caller.example.com/cb"}}
		if err := buildMethodCharge(req, "gopay", m, testOptions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Gopay.CallbackURL != "https://caller.example.com/cb" {
			t.Errorf("callback url = %q", req.Gopay.CallbackURL)
		}
	})

	t.Run("qris acquirer defaults", func(t *testing.T) {
		req := baseRequest("qris")
		if err := buildMethodCharge(req, "qris", PaymentMethodRequest{}, testOptions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Qris == nil || req.Qris.Acquirer != "gopay" {
			t.Fatalf("qris block = %+v", req.Qris)
		}
	})

	t.Run("bank transfer accepts configured bank", func(t *testing.T) {
		req := baseRequest("bank_transfer")
		m := PaymentMethodRequest{BankTransfer: &BankTransferRequest{Bank: "bca"}}
		if err := buildMethodCharge(req, "bank_transfer", m, testOptions()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.BankTransfer == nil || req.BankTransfer.Bank != "bca" {
			t.Fatalf("bank_transfer block = %+v", req.BankTransfer)
		}
	})
}

func TestNormalizeChargeResponse(t *testing.T) {
	t.Run("gopay extracts named actions", func(t *testing.T) {
		resp := &midtrans.ChargeResponse{
			TransactionID:     "tx-1",
			TransactionStatus: "pending",
			Actions: []midtrans.Action{
				{Name: "generate-qr-code", Method: "GET", URL: "https://gw.example/qr"},
				{Name: "deeplink-redirect", Method: "GET", URL: "https://gw.example/deeplink"},
			},
		}
		d := normalizeChargeResponse("gopay", PaymentMethodRequest{}, resp)
		if d.QRCodeURL != "https://gw.example/qr" {
			t.Errorf("qr_code_url = %q", d.QRCodeURL)
		}
		if d.DeeplinkURL != "https://gw.example/deeplink" {
			t.Errorf("deeplink_url = %q", d.DeeplinkURL)
		}
		// get-status was not returned; absence is an empty optional field.
		if d.StatusURL != "" {
			t.Errorf("status_url = %q, want empty", d.StatusURL)
		}
	})

	t.Run("qris keeps qr string and actions", func(t *testing.T) {
		resp := &midtrans.ChargeResponse{
			QRString: "00020101021226660014ID.EXAMPLE",
			Acquirer: "gopay",
			Actions:  []midtrans.Action{{Name: "generate-qr-code", URL: "https://gw.example/qr"}},
		}
		d := normalizeChargeResponse("qris", PaymentMethodRequest{}, resp)
		if d.QRString != resp.QRString {
			t.Errorf("qr_string = %q", d.QRString)
		}
		if d.Acquirer != "gopay" || len(d.Actions) != 1 {
			t.Errorf("acquirer = %q, actions = %v", d.Acquirer, d.Actions)
		}
	})

	t.Run("bank transfer keeps va numbers", func(t *testing.T) {
		resp := &midtrans.ChargeResponse{
			VANumbers:  []midtrans.VANumber{{Bank: "bca", VANumber: "12345678901"}},
			PaymentCode: "887788",
		}
		d := normalizeChargeResponse("bank_transfer", PaymentMethodRequest{}, resp)
		if len(d.VANumbers) != 1 || d.VANumbers[0].VANumber != "12345678901" {
			t.Errorf("va_numbers = %v", d.VANumbers)
		}
		if d.PaymentCode != "887788" {
			t.Errorf("payment_code = %q", d.PaymentCode)
		}
	})

	t.Run("credit card keeps diagnostics and token", func(t *testing.T) {
		resp := &midtrans.ChargeResponse{
			MaskedCard:             "481111-1114",
			Bank:                   "bni",
			CardType:               "credit",
			RedirectURL:            "https://gw.example/3ds",
			ChannelResponseCode:    "00",
			ChannelResponseMessage: "Approved",
		}
		m := PaymentMethodRequest{CreditCard: &CreditCardRequest{TokenID: "tok_9"}}
		d := normalizeChargeResponse("credit_card", m, resp)
		if d.CardToken != "tok_9" || d.MaskedCard != "481111-1114" || d.RedirectURL != "https://gw.example/3ds" {
			t.Errorf("details = %+v", d)
		}
	})
}
