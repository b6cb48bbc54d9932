package routes

import (
	"diagnostics-backend/internal/handlers"
	"diagnostics-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Options struct {
	CORSOrigin string
	// RequireAuth puts the staff routes behind a login token.
	RequireAuth bool
	TokenSecret string
	// Limiter throttles the public form endpoints per client IP.
	Limiter *middleware.IPRateLimiter
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.Use(middleware.CORSMiddleware(opts.CORSOrigin))

	limited := func(hf gin.HandlerFunc) []gin.HandlerFunc {
		if opts.Limiter == nil {
			return []gin.HandlerFunc{hf}
		}
		return []gin.HandlerFunc{middleware.RateLimitMiddleware(opts.Limiter), hf}
	}

	r.GET("/ping", h.Ping)

	// Public: staff accounts, patient self-registration, website contact form
	// and the payment gateway callback.
	r.POST("/signup", limited(h.Signup)...)
	r.POST("/login", limited(h.Login)...)
	r.POST("/register", h.Register)
	r.POST("/submit-contact-form", limited(h.SubmitContactForm)...)
	r.POST("/payment/notification", h.PaymentNotification)

	staff := r.Group("/")
	if opts.RequireAuth {
		staff.Use(middleware.AuthMiddleware(opts.TokenSecret))
	}
	{
		staff.GET("/patients", h.ListPatients)
		staff.GET("/patients/:id", h.GetPatient)
		staff.PUT("/patients/:id/status", h.UpdatePatientStatus)
		staff.DELETE("/patients/:id", h.DeletePatient)
		staff.POST("/patients/:id/payment", h.CreatePaymentLink)
		staff.GET("/accepted-patients", h.ListAcceptedPatients)

		staff.POST("/test-bookings", h.CreateTestBooking)
		staff.GET("/test-bookings", h.ListTestBookings)
		staff.POST("/test-bookings/delete", h.DeleteTestBookings)

		staff.GET("/printed-tests", h.ListPrintedTests)
		staff.POST("/printed-tests", h.CreatePrintedTests)
		staff.GET("/printed-tests/:id", h.GetPrintedTest)
		staff.GET("/printed-tests-summary", h.PrintedTestSummary)
		staff.GET("/masters", h.ListPrintedTests)
	}
}
