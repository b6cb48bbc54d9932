package handlers

import (
	"errors"
	"math"
	"net/http"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/payment"
	"diagnostics-backend/internal/store"
	"diagnostics-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CreatePaymentLink opens a hosted payment for a registered patient.
func (h *Handler) CreatePaymentLink(c *gin.Context) {
	if h.payments == nil {
		utils.APIResponse(c, http.StatusServiceUnavailable, false, "Payments are not configured", nil)
		return
	}

	id, err := models.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid ID format", nil)
		return
	}

	var input models.PaymentLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "A positive amount is required", nil)
		return
	}
	// the gateway charges whole units
	amount := int64(math.Round(float64(input.Amount)))
	if amount < 1 {
		utils.APIResponse(c, http.StatusBadRequest, false, "A positive amount is required", nil)
		return
	}

	ctx := c.Request.Context()
	patient, err := h.store.Patients.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		utils.APIResponse(c, http.StatusNotFound, false, "Patient not found", nil)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("payment link: load patient")
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to create payment link", nil)
		return
	}

	item := patient.TestType
	if item == "" {
		item = "Diagnostic test"
	}
	link, err := h.payments.CreateLink(ctx, payment.LinkRequest{
		OrderID:   payment.OrderID(patient.PatientNo, h.now()),
		Amount:    amount,
		ItemName:  item,
		FirstName: patient.FirstName,
		LastName:  patient.LastName,
		Email:     patient.Email,
		Phone:     patient.Phone,
	})
	if err != nil {
		h.log.Error().Err(err).Str("patient_no", patient.PatientNo).Msg("payment link: gateway")
		utils.APIResponse(c, http.StatusBadGateway, false, "Payment gateway error", nil)
		return
	}

	h.log.Info().Str("patient_no", patient.PatientNo).Str("order_id", link.OrderID).Msg("payment link created")
	utils.APIResponse(c, http.StatusCreated, true, "Payment link created", link)
}

// PaymentNotification receives the gateway's status callback and records
// the result on the patient. The gateway retries until it gets a 200.
func (h *Handler) PaymentNotification(c *gin.Context) {
	if h.payments == nil {
		utils.APIResponse(c, http.StatusServiceUnavailable, false, "Payments are not configured", nil)
		return
	}

	var n payment.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid JSON", nil)
		return
	}
	if err := h.payments.VerifyNotification(n); err != nil {
		h.log.Warn().Str("order_id", n.OrderID).Msg("payment notification with bad signature")
		utils.APIResponse(c, http.StatusForbidden, false, "Invalid signature", nil)
		return
	}

	patientNo, err := payment.PatientNo(n.OrderID)
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid order id", nil)
		return
	}

	status := payment.Status(n.TransactionStatus, n.FraudStatus)
	h.log.Info().Str("order_id", n.OrderID).Str("transaction_status", n.TransactionStatus).
		Str("fraud_status", n.FraudStatus).Str("payment_status", status).Msg("payment notification received")

	if _, err := h.store.Patients.UpdatePaymentStatus(c.Request.Context(), patientNo, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.APIResponse(c, http.StatusNotFound, false, "Patient not found", nil)
			return
		}
		h.log.Error().Err(err).Str("order_id", n.OrderID).Msg("payment notification: update patient")
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to update payment status", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
