package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"diagnostics-backend/internal/models"
)

type bookingRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

// nextPatientNo bumps the booking counter atomically; the first value is 1.
func (r *bookingRepo) nextPatientNo(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": bookingCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("increment booking counter: %w", err)
	}
	return counter.Seq, nil
}

func (r *bookingRepo) Create(ctx context.Context, b *models.TestBooking) error {
	seq, err := r.nextPatientNo(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	b.ID = models.NewObjectID()
	b.PatientNo = seq
	b.CreatedAt, b.UpdatedAt = now, now
	_, err = r.col.InsertOne(ctx, b)
	return translate(err)
}

func (r *bookingRepo) List(ctx context.Context) ([]models.TestBooking, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out := []models.TestBooking{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepo) DeleteMany(ctx context.Context, ids []models.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
