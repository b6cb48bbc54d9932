// Package payment creates hosted payment links for patients and maps the
// gateway's asynchronous status callbacks onto patient payment states.
package payment

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"diagnostics-backend/internal/models"
)

var (
	ErrInvalidSignature = errors.New("invalid notification signature")
	ErrInvalidOrderID   = errors.New("order id has no patient number")
)

// LinkRequest describes a single-item charge for a patient.
type LinkRequest struct {
	OrderID   string
	Amount    int64
	ItemName  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Link is what the front end needs to open the hosted payment page.
type Link struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Gateway is implemented by Midtrans and by fakes in tests.
type Gateway interface {
	CreateLink(ctx context.Context, req LinkRequest) (*Link, error)
	VerifyNotification(n Notification) error
}

// Notification is the subset of the gateway callback body that is used.
type Notification struct {
	OrderID           string `json:"order_id" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

// OrderID builds the merchant order id for a patient. It must be unique
// per attempt, so the patient number is suffixed with the unix time.
func OrderID(patientNo string, at time.Time) string {
	return fmt.Sprintf("%s-%d", patientNo, at.Unix())
}

// PatientNo recovers the patient number from an order id made by OrderID.
func PatientNo(orderID string) (string, error) {
	i := strings.LastIndexByte(orderID, '-')
	if i <= 0 {
		return "", ErrInvalidOrderID
	}
	return orderID[:i], nil
}

// Status maps a gateway transaction status onto a patient payment status.
func Status(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return models.PaymentPaid
		}
		return models.PaymentExpecting
	case "settlement":
		return models.PaymentPaid
	case "deny", "cancel", "expire", "failure":
		return models.PaymentFailed
	default:
		return models.PaymentExpecting
	}
}

// Signature computes the callback signature: SHA-512 over order id,
// status code, gross amount and server key.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func verify(n Notification, serverKey string) error {
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) != 1 {
		return ErrInvalidSignature
	}
	return nil
}
