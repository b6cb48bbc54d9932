// Package store defines the persistence boundary of the clinic backend.
// Implementations live in mongostore, sqlstore and memstore.
package store

import (
	"context"
	"errors"

	"diagnostics-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *models.Patient) error
	// Last returns the most recently inserted patient, ErrNotFound when empty.
	Last(ctx context.Context) (*models.Patient, error)
	List(ctx context.Context) ([]models.Patient, error)
	ListByStatus(ctx context.Context, status string) ([]models.Patient, error)
	Get(ctx context.Context, id models.ObjectID) (*models.Patient, error)
	UpdateStatus(ctx context.Context, id models.ObjectID, status string) (*models.Patient, error)
	UpdatePaymentStatus(ctx context.Context, patientNo, paymentStatus string) (*models.Patient, error)
	Delete(ctx context.Context, id models.ObjectID) error
}

type TestBookingRepository interface {
	// Create assigns ID, the auto-incremented PatientNo and timestamps.
	Create(ctx context.Context, b *models.TestBooking) error
	List(ctx context.Context) ([]models.TestBooking, error)
	DeleteMany(ctx context.Context, ids []models.ObjectID) (int64, error)
}

type PrintedTestRepository interface {
	// InsertMany is not atomic: records inserted before a failure stay.
	InsertMany(ctx context.Context, tests []*models.PrintedTest) error
	List(ctx context.Context) ([]models.PrintedTest, error)
	Get(ctx context.Context, id models.ObjectID) (*models.PrintedTest, error)
	Summary(ctx context.Context) (*Summary, error)
}

type ContactFormRepository interface {
	Create(ctx context.Context, f *models.ContactForm) error
}

// Repositories is the handle the API layer is built on.
type Repositories struct {
	Users        UserRepository
	Patients     PatientRepository
	TestBookings TestBookingRepository
	PrintedTests PrintedTestRepository
	ContactForms ContactFormRepository

	Backend Backend
}

// Backend covers connection-level operations of a driver.
type Backend interface {
	Ping(ctx context.Context) error
	// EnsureSchema creates indexes or migrates tables.
	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}
