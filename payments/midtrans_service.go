package payments

import (
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	config "github.com/thekevinkun/padel-court-sub000/configs"
)

const midtransSnapBaseURL = "https://app.sandbox.midtrans.com/snap/v1"

// Outcome values reported by the provider, normalized for the ledger.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
	OutcomePending = "PENDING"
)

type SnapTransactionRequest struct {
	TransactionDetails struct {
		OrderID     string  `json:"order_id"`
		GrossAmount float64 `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"customer_details"`
	Expiry struct {
		Unit     string `json:"unit"`
		Duration int    `json:"duration"`
	} `json:"expiry"`
}

type SnapTransactionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// WebhookNotification is the provider's payment-status callback payload.
type WebhookNotification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	PaymentType       string `json:"payment_type"`
	GrossAmount       string `json:"gross_amount"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
}

// CreateSnapTransaction opens a hosted payment page for the given booking
// reference and amount. The payment window matches the booking expiry sweep.
func CreateSnapTransaction(reference string, amount float64, customerName, customerEmail, customerPhone string) (*SnapTransactionResponse, error) {
	serverKey := config.Config("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return nil, fmt.Errorf("MIDTRANS_SERVER_KEY is not configured")
	}

	var req SnapTransactionRequest
	req.TransactionDetails.OrderID = reference
	req.TransactionDetails.GrossAmount = amount
	req.CustomerDetails.FirstName = customerName
	req.CustomerDetails.Email = customerEmail
	req.CustomerDetails.Phone = customerPhone
	req.Expiry.Unit = "hours"
	req.Expiry.Duration = 24

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snap request: %v", err)
	}

	httpReq, err := http.NewRequest("POST", midtransSnapBaseURL+"/transactions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(serverKey+":")))

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment provider: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		log.Printf("🔥 Midtrans Snap error: Status %d, Body: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("payment provider rejected the transaction")
	}

	var snapResp SnapTransactionResponse
	if err := json.Unmarshal(respBody, &snapResp); err != nil {
		return nil, fmt.Errorf("failed to parse snap response: %v", err)
	}
	return &snapResp, nil
}

// VerifySignature checks the sha512(order_id + status_code + gross_amount +
// server_key) signature the provider attaches to every notification.
func VerifySignature(n *WebhookNotification) bool {
	serverKey := config.Config("MIDTRANS_SERVER_KEY")
	payload := n.OrderID + n.StatusCode + n.GrossAmount + serverKey
	sum := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(sum[:]) == n.SignatureKey
}

// Outcome normalizes the provider's transaction_status/fraud_status pair.
func (n *WebhookNotification) Outcome() string {
	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus == "challenge" {
			return OutcomePending
		}
		return OutcomeSuccess
	case "settlement":
		return OutcomeSuccess
	case "pending":
		return OutcomePending
	default:
		return OutcomeFailure
	}
}

func (n *WebhookNotification) Amount() float64 {
	amount, err := strconv.ParseFloat(n.GrossAmount, 64)
	if err != nil {
		return 0
	}
	return amount
}

// ProcessingFee returns the fee the venue absorbs for an online payment,
// from the per-method schedule. Rates are configurable; the defaults mirror
// the provider's published pricing.
func ProcessingFee(method string, amount float64) float64 {
	switch method {
	case "qris":
		return math.Round(amount * config.ConfigFloat("FEE_QRIS_PERCENT", 0.7) / 100)
	case "gopay", "shopeepay":
		return math.Round(amount * config.ConfigFloat("FEE_EWALLET_PERCENT", 2.0) / 100)
	case "credit_card":
		return math.Round(amount*config.ConfigFloat("FEE_CARD_PERCENT", 2.9)/100) + config.ConfigFloat("FEE_CARD_FLAT", 2000)
	case "bank_transfer", "echannel":
		return config.ConfigFloat("FEE_VA_FLAT", 4000)
	default:
		return 0
	}
}
