// Package mongostore persists the clinic collections in MongoDB. Collection
// names follow mongoose pluralisation (testbookings, printedtests) so an
// existing dashboard database can be reused; EnsureSchema moves the booking
// counter past any patient_no already stored.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"diagnostics-backend/internal/store"
)

const (
	colUsers        = "users"
	colPatients     = "patients"
	colTestBookings = "testbookings"
	colPrintedTests = "printedtests"
	colContactForms = "contactforms"
	colCounters     = "counters"

	bookingCounterID = "testbookings.patient_no"
)

type backend struct {
	client *mongo.Client
	db     *mongo.Database
	log    zerolog.Logger
}

// Connect dials uri, checks the primary is reachable and returns the
// repositories bound to database.
func Connect(ctx context.Context, uri, database string, log zerolog.Logger) (*store.Repositories, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info().Str("database", database).Msg("connected to mongodb")
	return New(client.Database(database), log), nil
}

// New builds the repositories over an already connected database.
func New(db *mongo.Database, log zerolog.Logger) *store.Repositories {
	b := &backend{client: db.Client(), db: db, log: log}
	return &store.Repositories{
		Users:        &userRepo{col: db.Collection(colUsers)},
		Patients:     &patientRepo{col: db.Collection(colPatients)},
		TestBookings: &bookingRepo{col: db.Collection(colTestBookings), counters: db.Collection(colCounters)},
		PrintedTests: &printedRepo{col: db.Collection(colPrintedTests)},
		ContactForms: &contactRepo{col: db.Collection(colContactForms)},
		Backend:      b,
	}
}

func (b *backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx, readpref.Primary())
}

func (b *backend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

// EnsureSchema creates the unique and lookup indexes. Existing identical
// indexes are left alone by the server.
func (b *backend) EnsureSchema(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colPatients: {
			{
				Keys: bson.D{{Key: "patient_no", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: "patient_no", Value: bson.D{{Key: "$type", Value: "string"}}}}),
			},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		colTestBookings: {
			{
				Keys: bson.D{{Key: "lab_no", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.D{{Key: "lab_no", Value: bson.D{{Key: "$gt", Value: ""}}}}),
			},
			{Keys: bson.D{{Key: "patient_no", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colPrintedTests: {
			{Keys: bson.D{{Key: "patient_id", Value: 1}}},
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
	}
	for col, idx := range specs {
		names, err := b.db.Collection(col).Indexes().CreateMany(ctx, idx)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", col, err)
		}
		b.log.Debug().Str("collection", col).Strs("indexes", names).Msg("indexes ensured")
	}
	return b.seedBookingCounter(ctx)
}

// seedBookingCounter raises the booking counter to the highest stored
// patient_no. It never lowers it.
func (b *backend) seedBookingCounter(ctx context.Context) error {
	var top struct {
		PatientNo int64 `bson:"patient_no"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "patient_no", Value: -1}}).
		SetProjection(bson.D{{Key: "patient_no", Value: 1}})
	err := b.db.Collection(colTestBookings).FindOne(ctx, bson.D{}, opts).Decode(&top)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read highest booking number: %w", err)
	}
	_, err = b.db.Collection(colCounters).UpdateOne(ctx,
		bson.M{"_id": bookingCounterID},
		bson.M{"$max": bson.M{"seq": top.PatientNo}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("seed booking counter: %w", err)
	}
	b.log.Debug().Int64("seq", top.PatientNo).Msg("booking counter seeded")
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
