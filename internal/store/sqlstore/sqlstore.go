// Package sqlstore persists the clinic records in MySQL through gorm.
// Identifiers stay 24-character ObjectID hex strings so API responses do not
// depend on the driver.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
)

const bookingCounterName = "test_bookings.patient_no"

// counter backs the auto-incremented TestBooking.PatientNo.
type counter struct {
	Name string `gorm:"primaryKey;size:64"`
	Seq  int64  `gorm:"not null;default:0"`
}

func (counter) TableName() string { return "counters" }

type backend struct {
	db *gorm.DB
}

// gormWriter routes gorm's logger output into zerolog.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Debug().Msgf(format, args...)
}

// Open connects with dsn. The DSN should carry parseTime=true&loc=UTC.
func Open(dsn string, log zerolog.Logger) (*store.Repositories, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(gormWriter{log: log}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	log.Info().Msg("connected to mysql")
	return New(db), nil
}

// New builds the repositories over an open gorm handle.
func New(db *gorm.DB) *store.Repositories {
	return &store.Repositories{
		Users:        &userRepo{db: db},
		Patients:     &patientRepo{db: db},
		TestBookings: &bookingRepo{db: db},
		PrintedTests: &printedRepo{db: db},
		ContactForms: &contactRepo{db: db},
		Backend:      &backend{db: db},
	}
}

func (b *backend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *backend) Close(context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSchema migrates every table and seeds the booking counter.
func (b *backend) EnsureSchema(ctx context.Context) error {
	db := b.db.WithContext(ctx)
	err := db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.TestBooking{},
		&models.PrintedTest{},
		&models.ContactForm{},
		&counter{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&counter{Name: bookingCounterName}).Error
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
