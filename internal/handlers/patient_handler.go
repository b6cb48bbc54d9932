package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/notify"
	"diagnostics-backend/internal/store"
	"diagnostics-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Register creates a patient, numbering it when the form did not.
func (h *Handler) Register(c *gin.Context) {
	var input models.RegisterPatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Debug().Err(err).Msg("registration rejected")
		utils.Text(c, http.StatusBadRequest, "Invalid registration details")
		return
	}

	dob, err := utils.ParseDate(input.DOB)
	if err != nil {
		utils.Text(c, http.StatusBadRequest, "Invalid date of birth")
		return
	}

	patient := models.Patient{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		DOB:           dob,
		Email:         input.Email,
		Phone:         input.Phone,
		TestType:      input.TestType,
		Sex:           input.Sex,
		HomeService:   input.HomeService.Bool(),
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
		PatientNo:     input.PatientNo,
	}
	if patient.Status == "" {
		patient.Status = models.StatusPending
	}
	if patient.PaymentStatus == "" {
		patient.PaymentStatus = models.PaymentExpecting
	}

	ctx := c.Request.Context()
	if patient.PatientNo == "" {
		patient.PatientNo, err = h.patientNos.Next(ctx)
		if err != nil {
			h.serverError(c, err, "Registration failed due to server error")
			return
		}
	}

	if err := h.store.Patients.Create(ctx, &patient); err != nil {
		h.serverError(c, err, "Registration failed due to server error")
		return
	}

	h.notifyRegistration(patient)
	utils.Text(c, http.StatusCreated, "Patient registered successfully")
}

func (h *Handler) notifyRegistration(p models.Patient) {
	h.notifier.Dispatch(notify.Message{
		Channel: notify.ChannelEmail,
		To:      h.opts.RegistrationEmail,
		Subject: "Test Registration Confirmation",
		Body: fmt.Sprintf("Dear %s patient,\n\nThe registration for %s %s has been received.\n\nThank you.",
			h.opts.ClinicName, p.FirstName, p.LastName),
	})
	h.notifier.Dispatch(notify.Message{
		Channel: notify.ChannelSMS,
		To:      p.Phone,
		Body: fmt.Sprintf("%s: registration received for %s %s. Your patient number is %s.",
			h.opts.ClinicName, p.FirstName, p.LastName, p.PatientNo),
	})
	h.notifier.Dispatch(notify.Message{
		Channel: notify.ChannelPush,
		To:      h.opts.AdminTopic,
		Subject: "New patient registration",
		Body:    fmt.Sprintf("%s %s registered as %s", p.FirstName, p.LastName, p.PatientNo),
		Data:    map[string]string{"patient_no": p.PatientNo, "patient_id": p.ID.Hex(), "type": "registration"},
	})
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.store.Patients.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to retrieve patients")
		return
	}
	c.JSON(http.StatusOK, patients)
}

func (h *Handler) ListAcceptedPatients(c *gin.Context) {
	patients, err := h.store.Patients.ListByStatus(c.Request.Context(), models.StatusAccepted)
	if err != nil {
		h.serverError(c, err, "Failed to retrieve accepted patients")
		return
	}
	c.JSON(http.StatusOK, patients)
}

// GetPatient treats a malformed id like an unknown one.
func (h *Handler) GetPatient(c *gin.Context) {
	id, err := models.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Text(c, http.StatusNotFound, "Patient not found")
		return
	}
	patient, err := h.store.Patients.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.Text(c, http.StatusNotFound, "Patient not found")
		return
	}
	if err != nil {
		h.serverError(c, err, "Failed to fetch patient details")
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (h *Handler) UpdatePatientStatus(c *gin.Context) {
	id, err := models.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Text(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var input models.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Text(c, http.StatusBadRequest, "Status is required")
		return
	}

	patient, err := h.store.Patients.UpdateStatus(c.Request.Context(), id, input.Status)
	if errors.Is(err, store.ErrNotFound) {
		utils.Text(c, http.StatusNotFound, "Patient not found")
		return
	}
	if err != nil {
		h.serverError(c, err, "Failed to update patient status")
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := models.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Text(c, http.StatusNotFound, "Patient not found")
		return
	}
	err = h.store.Patients.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.Text(c, http.StatusNotFound, "Patient not found")
		return
	}
	if err != nil {
		h.serverError(c, err, "Failed to delete patient")
		return
	}
	utils.Text(c, http.StatusOK, "Patient deleted successfully")
}
