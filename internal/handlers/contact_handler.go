package handlers

import (
	"fmt"
	"net/http"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/notify"
	"diagnostics-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SubmitContactForm(c *gin.Context) {
	var input models.ContactFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Debug().Err(err).Msg("contact form rejected")
		utils.Text(c, http.StatusBadRequest, "Name, email and message are required")
		return
	}

	form := models.ContactForm{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Message:        input.Message,
		SubmissionTime: h.now(),
	}
	if consent := input.Consent.Bool(); consent != nil {
		form.Consent = *consent
	}

	if err := h.store.ContactForms.Create(c.Request.Context(), &form); err != nil {
		h.serverError(c, err, "Failed to submit form")
		return
	}

	h.notifier.Dispatch(notify.Message{
		Channel: notify.ChannelEmail,
		To:      form.Email,
		Subject: "Contact Form Submission",
		Body:    fmt.Sprintf("Thank you, %s, for reaching out.", form.Name),
	})
	h.notifier.Dispatch(notify.Message{
		Channel: notify.ChannelEmail,
		To:      h.opts.AdminEmail,
		Subject: "New Contact Form Submission",
		Body:    fmt.Sprintf("New contact from %s", form.Name),
	})

	utils.Text(c, http.StatusCreated, "Form submitted successfully")
}
