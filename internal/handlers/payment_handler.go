package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/shopspring/decimal"

	"github.com/qrstore/backend/internal/services"
)

// PaymentHandler serves the payment function: balance and history reads,
// payment intake and withdrawal.
type PaymentHandler struct {
	ledger    *services.LedgerService
	validator *services.ValidationHelper
}

func NewPaymentHandler(ledger *services.LedgerService) *PaymentHandler {
	return &PaymentHandler{
		ledger:    ledger,
		validator: services.NewValidationHelper(),
	}
}

type paymentBody struct {
	Action      string          `json:"action" validate:"required,oneof=process_payment withdraw"`
	PaymentType string          `json:"payment_type"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   string          `json:"account_id"`
	Description string          `json:"description"`
	QRCode      string          `json:"qr_code"`
	CardNumber  string          `json:"card_number"`
	CashDetails map[string]int  `json:"cash_details"`
	Phone       string          `json:"phone"`
}

// Handle dispatches one gateway invocation.
func (h *PaymentHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodOptions:
		return optionsResponse("GET, POST, OPTIONS"), nil
	case http.MethodGet:
		return h.handleGet(ctx, req)
	case http.MethodPost:
		return h.handlePost(ctx, req)
	}
	return jsonResponse(http.StatusBadRequest, map[string]any{"error": "Invalid request"})
}

func (h *PaymentHandler) handleGet(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	action := req.QueryStringParameters["action"]
	if action == "" {
		action = "balance"
	}
	accountID := req.QueryStringParameters["account_id"]
	if accountID == "" {
		accountID = "main"
	}

	switch action {
	case "balance":
		balance, err := h.ledger.GetBalance(ctx, accountID)
		if err != nil {
			log.Printf("[PAYMENT] balance read failed: %v", err)
			return jsonResponse(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		return jsonResponse(http.StatusOK, map[string]any{
			"balance":    balance.InexactFloat64(),
			"account_id": accountID,
		})

	case "transactions":
		transactions, err := h.ledger.ListTransactions(ctx, accountID)
		if err != nil {
			log.Printf("[PAYMENT] transactions read failed: %v", err)
			return jsonResponse(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		list := make([]map[string]any, 0, len(transactions))
		for _, tx := range transactions {
			list = append(list, map[string]any{
				"id":          tx.ID,
				"amount":      tx.Amount.InexactFloat64(),
				"type":        tx.PaymentType,
				"description": tx.Description,
				"date":        tx.CreatedAt.Format(time.RFC3339),
			})
		}
		return jsonResponse(http.StatusOK, map[string]any{"transactions": list})
	}

	return jsonResponse(http.StatusBadRequest, map[string]any{"error": "Invalid request"})
}

func (h *PaymentHandler) handlePost(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body paymentBody
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		log.Printf("[PAYMENT] malformed body: %v", err)
		return jsonResponse(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if err := h.validator.ValidateStruct(&body); err != nil {
		return jsonResponse(http.StatusBadRequest, map[string]any{"error": "Invalid request"})
	}

	if body.AccountID == "" {
		body.AccountID = "main"
	}

	switch body.Action {
	case "process_payment":
		return h.processPayment(ctx, body)
	case "withdraw":
		return h.withdraw(ctx, body)
	}
	return jsonResponse(http.StatusBadRequest, map[string]any{"error": "Invalid request"})
}

func (h *PaymentHandler) processPayment(ctx context.Context, body paymentBody) (events.APIGatewayProxyResponse, error) {
	result, err := h.ledger.ProcessPayment(ctx, services.PaymentRequest{
		PaymentType: body.PaymentType,
		Amount:      body.Amount,
		AccountID:   body.AccountID,
		Description: body.Description,
		QRCode:      body.QRCode,
		CardNumber:  body.CardNumber,
		CashDetails: body.CashDetails,
	})
	if err != nil {
		var be *services.BusinessError
		if errors.As(err, &be) {
			return jsonResponse(http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   be.Message,
			})
		}
		log.Printf("[PAYMENT] %s payment failed: %v", body.PaymentType, err)
		return jsonResponse(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	resp := map[string]any{
		"success":        true,
		"transaction_id": result.TransactionID,
		"new_balance":    result.NewBalance.InexactFloat64(),
		"message":        result.Message,
	}
	if result.Item != "" {
		resp["item"] = result.Item
	}
	if len(result.Breakdown) > 0 {
		resp["breakdown"] = result.Breakdown
	}
	return jsonResponse(http.StatusOK, resp)
}

func (h *PaymentHandler) withdraw(ctx context.Context, body paymentBody) (events.APIGatewayProxyResponse, error) {
	result, err := h.ledger.Withdraw(ctx, services.WithdrawRequest{
		Amount:    body.Amount,
		AccountID: body.AccountID,
		Phone:     body.Phone,
	})
	if err != nil {
		var be *services.BusinessError
		if errors.As(err, &be) {
			resp := map[string]any{
				"success": false,
				"error":   be.Message,
			}
			if be.Balance != nil {
				resp["balance"] = be.Balance.InexactFloat64()
			}
			return jsonResponse(http.StatusBadRequest, resp)
		}
		log.Printf("[PAYMENT] withdrawal failed: %v", err)
		return jsonResponse(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return jsonResponse(http.StatusOK, map[string]any{
		"success":     true,
		"new_balance": result.NewBalance.InexactFloat64(),
		"message":     result.Message,
	})
}
