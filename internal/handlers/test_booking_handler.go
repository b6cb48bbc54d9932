package handlers

import (
	"net/http"
	"strings"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateTestBooking(c *gin.Context) {
	var input models.TestBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if isValidation(err) {
			utils.Text(c, http.StatusBadRequest, "Name and sex are required")
			return
		}
		utils.Text(c, http.StatusBadRequest, "Invalid booking details")
		return
	}

	date := h.now()
	if input.Date != "" {
		d, err := utils.ParseDate(input.Date)
		if err != nil {
			utils.Text(c, http.StatusBadRequest, "Invalid booking date")
			return
		}
		date = d
	}

	booking := models.TestBooking{
		Name:          input.Name,
		Sex:           input.Sex,
		Age:           input.Age.Float(),
		AgeUnit:       input.AgeUnit,
		Time:          input.Time,
		Specimen:      input.Specimen,
		Investigation: input.Investigation,
		ReferredBy:    input.ReferredBy,
		Date:          date,
	}
	if booking.ReferredBy == "" {
		booking.ReferredBy = input.ReferredByAlt
	}
	if lab := strings.TrimSpace(string(input.LabNo)); lab != "" {
		booking.LabNo = &lab
	}

	if err := h.store.TestBookings.Create(c.Request.Context(), &booking); err != nil {
		h.serverError(c, err, "Failed to save booking")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *Handler) ListTestBookings(c *gin.Context) {
	bookings, err := h.store.TestBookings.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to retrieve bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// DeleteTestBookings removes the bookings whose ids are valid; malformed
// ids in the list are skipped.
func (h *Handler) DeleteTestBookings(c *gin.Context) {
	var input models.DeleteBookingsInput
	if err := c.ShouldBindJSON(&input); err != nil || len(input.IDs) == 0 {
		utils.Text(c, http.StatusBadRequest, "No valid IDs provided.")
		return
	}

	ids := make([]models.ObjectID, 0, len(input.IDs))
	for _, ref := range input.IDs {
		if id, ok := ref.ObjectID(); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		utils.Text(c, http.StatusBadRequest, "No valid IDs provided after validation.")
		return
	}

	deleted, err := h.store.TestBookings.DeleteMany(c.Request.Context(), ids)
	if err != nil {
		h.serverError(c, err, "Failed to delete test bookings.")
		return
	}
	if deleted == 0 {
		utils.Text(c, http.StatusNotFound, "No matching records found to delete.")
		return
	}
	h.log.Info().Int64("deleted", deleted).Int("requested", len(input.IDs)).Msg("test bookings deleted")
	utils.Text(c, http.StatusOK, "Test bookings deleted successfully.")
}
