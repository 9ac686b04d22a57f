package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"tokobayar.com/app/internal/gateway/midtrans"
	"tokobayar.com/app/internal/http/middleware"
	"tokobayar.com/app/internal/http/validation"
	"tokobayar.com/app/internal/modules/payments"
	"tokobayar.com/app/internal/shared/apperr"
)

// CardTokenizer is the tokenization slice of the gateway client.
type CardTokenizer interface {
	CardToken(ctx context.Context, req *midtrans.CardTokenRequest) (*midtrans.CardTokenResponse, error)
}

type PaymentHandler struct {
	Logger     *slog.Logger
	Service    *payments.Service
	Reconciler *payments.Reconciler
	Cards      CardTokenizer
}

func NewPaymentHandler(logger *slog.Logger, svc *payments.Service, rec *payments.Reconciler, cards CardTokenizer) *PaymentHandler {
	return &PaymentHandler{Logger: logger, Service: svc, Reconciler: rec, Cards: cards}
}

type itemInput struct {
	ID       string `json:"id"`
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"gte=0"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
}

type customerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
}

// createPaymentInput deliberately has no total field: the gross amount is
// recomputed from the items server-side.
type createPaymentInput struct {
	PaymentType     string                         `json:"payment_type" binding:"required"`
	ItemDetails     []itemInput                    `json:"item_details" binding:"required,min=1,dive"`
	CustomerDetails *customerInput                 `json:"customer_details"`
	CreditCard      *payments.CreditCardRequest    `json:"credit_card"`
	BankTransfer    *payments.BankTransferRequest  `json:"bank_transfer"`
	Gopay           *payments.GopayRequest         `json:"gopay"`
	Qris            *payments.QrisRequest          `json:"qris"`
}

// POST /api/payment/create
func (h *PaymentHandler) Create(c *gin.Context) {
	var in createPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Request validation failed", validation.FromBindError(err, &in)))
		return
	}

	items := make([]midtrans.ItemDetail, len(in.ItemDetails))
	for i, it := range in.ItemDetails {
		items[i] = midtrans.ItemDetail{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: it.Quantity}
	}

	var customer *midtrans.CustomerDetails
	if in.CustomerDetails != nil {
		customer = &midtrans.CustomerDetails{
			FirstName: in.CustomerDetails.FirstName,
			LastName:  in.CustomerDetails.LastName,
			Email:     in.CustomerDetails.Email,
			Phone:     in.CustomerDetails.Phone,
		}
	}

	res, err := h.Service.Charge(c.Request.Context(), payments.ChargeInput{
		PaymentType: in.PaymentType,
		Items:       items,
		Customer:    customer,
		Method: payments.PaymentMethodRequest{
			CreditCard:   in.CreditCard,
			BankTransfer: in.BankTransfer,
			Gopay:        in.Gopay,
			Qris:         in.Qris,
		},
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	// Envelope: gateway raw fields plus the normalized record.
	data := gin.H{}
	if raw, err := json.Marshal(res.Gateway); err == nil {
		_ = json.Unmarshal(raw, &data)
	}
	data["order_id"] = res.OrderID
	data["payment_type"] = res.PaymentType
	data["amount"] = res.Amount
	data["payment_details"] = res.PaymentDetails

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Transaction created successfully",
		"data":    data,
	})
}

// POST /api/payment/notification
func (h *PaymentHandler) Notification(c *gin.Context) {
	var n midtrans.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid notification payload", nil))
		return
	}

	res, err := h.Reconciler.Reconcile(c.Request.Context(), &n)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Notification processed",
		"data": gin.H{
			"order_id":           res.OrderID,
			"transaction_status": res.TransactionStatus,
			"fraud_status":       res.FraudStatus,
			"final_status":       res.FinalStatus,
		},
	})
}

// GET /api/payment/status/:orderId
func (h *PaymentHandler) Status(c *gin.Context) {
	orderID := c.Param("orderId")

	res, err := h.Service.Status(c.Request.Context(), orderID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"order_id":           orderID,
			"transaction_id":     res.Gateway.TransactionID,
			"transaction_status": res.Gateway.TransactionStatus,
			"fraud_status":       res.Gateway.FraudStatus,
			"payment_type":       res.Gateway.PaymentType,
			"currency":           res.Gateway.Currency,
			"gross_amount":       res.Gateway.GrossAmount,
			"transaction_time":   res.Gateway.TransactionTime,
			"final_status":       res.FinalStatus,
		},
	})
}

// GET /api/payment/transactions?page=&limit=
func (h *PaymentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	items, total, err := h.Service.List(c.Request.Context(), page, limit)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	rows := make([]gin.H, len(items))
	for i := range items {
		rows[i] = transactionRow(&items[i])
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"data": rows,
		"meta": gin.H{
			"current_page":  page,
			"total_pages":   totalPages,
			"total_records": total,
			"per_page":      limit,
		},
	})
}

// transactionRow flattens a stored transaction for the listing and lifts the
// QR fields the browser client renders.
func transactionRow(t *payments.Transaction) gin.H {
	row := gin.H{}
	if raw, err := json.Marshal(t); err == nil {
		_ = json.Unmarshal(raw, &row)
	}

	var details payments.PaymentDetails
	if len(t.PaymentDetails) == 0 || json.Unmarshal(t.PaymentDetails, &details) != nil {
		return row
	}

	if t.PaymentType != "bank_transfer" {
		for _, a := range details.Actions {
			if a.Name == "generate-qr-code" {
				row["qr_code"] = gin.H{"url": a.URL, "method": a.Method}
				break
			}
		}
		if t.PaymentType == "qris" && details.QRString != "" {
			row["qr_string"] = details.QRString
		}
		if len(details.Actions) > 0 {
			row["payment_actions"] = details.Actions
		}
	}
	return row
}

// GET /api/payment/qr/:orderId
// Renders the stored QRIS payload as a PNG so clients do not have to bundle a
// QR library.
func (h *PaymentHandler) QR(c *gin.Context) {
	orderID := c.Param("orderId")

	t, err := h.Service.Transaction(c.Request.Context(), orderID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	var details payments.PaymentDetails
	if len(t.PaymentDetails) > 0 {
		_ = json.Unmarshal(t.PaymentDetails, &details)
	}
	if details.QRString == "" {
		middleware.Fail(c, apperr.NotFoundErr("Transaction has no QR payload"))
		return
	}

	png, err := qrcode.Encode(details.QRString, qrcode.Medium, 256)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

type cardTokenInput struct {
	CardNumber   string `json:"card_number" binding:"required"`
	CardExpMonth string `json:"card_exp_month" binding:"required"`
	CardExpYear  string `json:"card_exp_year" binding:"required"`
	CardCVV      string `json:"card_cvv" binding:"required"`
}

// POST /api/payment/card/token
// Proxies tokenization so raw card data never needs the server key on the
// client side.
func (h *PaymentHandler) CardToken(c *gin.Context) {
	var in cardTokenInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Request validation failed", validation.FromBindError(err, &in)))
		return
	}

	resp, err := h.Cards.CardToken(c.Request.Context(), &midtrans.CardTokenRequest{
		CardNumber:   in.CardNumber,
		CardExpMonth: in.CardExpMonth,
		CardExpYear:  in.CardExpYear,
		CardCVV:      in.CardCVV,
	})
	if err != nil {
		middleware.Fail(c, apperr.GatewayErr("Card tokenization failed", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}
