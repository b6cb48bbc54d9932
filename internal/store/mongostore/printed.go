package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
)

type printedRepo struct {
	col *mongo.Collection
}

// InsertMany writes in order and stops at the first failure; earlier
// documents are kept.
func (r *printedRepo) InsertMany(ctx context.Context, tests []*models.PrintedTest) error {
	if len(tests) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]any, len(tests))
	for i, t := range tests {
		t.ID = models.NewObjectID()
		t.CreatedAt, t.UpdatedAt = now, now
		docs[i] = t
	}
	_, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return translate(err)
}

func (r *printedRepo) List(ctx context.Context) ([]models.PrintedTest, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out := []models.PrintedTest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *printedRepo) Get(ctx context.Context, id models.ObjectID) (*models.PrintedTest, error) {
	var t models.PrintedTest
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *printedRepo) Summary(ctx context.Context) (*store.Summary, error) {
	monthly, err := r.groupBy(ctx, dateKey("%Y-%m"))
	if err != nil {
		return nil, err
	}
	weekly, err := r.groupBy(ctx, dateKey("%Y-%V"))
	if err != nil {
		return nil, err
	}
	gender, err := r.groupBy(ctx, "$sex")
	if err != nil {
		return nil, err
	}
	return &store.Summary{Monthly: monthly, Weekly: weekly, Gender: gender}, nil
}

func dateKey(format string) bson.D {
	return bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: format},
		{Key: "date", Value: "$date"},
	}}}
}

func (r *printedRepo) groupBy(ctx context.Context, key any) ([]store.PriceBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: key},
			{Key: "total_price", Value: bson.D{{Key: "$sum", Value: "$price_naira"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []store.PriceBucket{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
