// Package handlers implements the HTTP endpoints of the clinic backend.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"diagnostics-backend/internal/middleware"
	"diagnostics-backend/internal/notify"
	"diagnostics-backend/internal/patientno"
	"diagnostics-backend/internal/payment"
	"diagnostics-backend/internal/store"
	"diagnostics-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Notifier queues a message for background delivery.
type Notifier interface {
	Dispatch(msg notify.Message)
}

// Options carries the settings handlers need from configuration.
type Options struct {
	TokenSecret string
	TokenTTL    time.Duration

	ClinicName        string
	AdminEmail        string
	RegistrationEmail string
	AdminTopic        string
}

type Handler struct {
	store      *store.Repositories
	notifier   Notifier
	patientNos *patientno.Generator
	payments   payment.Gateway
	opts       Options
	log        zerolog.Logger
	now        func() time.Time
}

// New builds the handler set. payments may be nil, which disables the
// payment routes.
func New(repos *store.Repositories, notifier Notifier, payments payment.Gateway, opts Options, log zerolog.Logger) *Handler {
	return &Handler{
		store:      repos,
		notifier:   notifier,
		patientNos: patientno.New(repos.Patients),
		payments:   payments,
		opts:       opts,
		log:        log.With().Str("component", "api").Logger(),
		now:        time.Now,
	}
}

// Ping reports whether the store is reachable.
func (h *Handler) Ping(c *gin.Context) {
	if err := h.store.Backend.Ping(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("store ping failed")
		utils.APIResponse(c, http.StatusServiceUnavailable, false, "Store unavailable", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Server OK!", nil)
}

// isValidation tells missing or malformed fields apart from bodies that
// are not JSON at all.
func isValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func (h *Handler) serverError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).Msg(msg)
	utils.Text(c, http.StatusInternalServerError, msg)
}
