package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
)

type patientRepo struct {
	col *mongo.Collection
}

func (r *patientRepo) Create(ctx context.Context, p *models.Patient) error {
	p.ID = models.NewObjectID()
	_, err := r.col.InsertOne(ctx, p)
	return translate(err)
}

// Last sorts on _id; ObjectIDs grow with insertion time.
func (r *patientRepo) Last(ctx context.Context) (*models.Patient, error) {
	var p models.Patient
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	if err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *patientRepo) List(ctx context.Context) ([]models.Patient, error) {
	return r.find(ctx, bson.M{})
}

func (r *patientRepo) ListByStatus(ctx context.Context, status string) ([]models.Patient, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *patientRepo) find(ctx context.Context, filter bson.M) ([]models.Patient, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := []models.Patient{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *patientRepo) Get(ctx context.Context, id models.ObjectID) (*models.Patient, error) {
	var p models.Patient
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *patientRepo) UpdateStatus(ctx context.Context, id models.ObjectID, status string) (*models.Patient, error) {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"status": status})
}

func (r *patientRepo) UpdatePaymentStatus(ctx context.Context, patientNo, paymentStatus string) (*models.Patient, error) {
	return r.updateOne(ctx, bson.M{"patient_no": patientNo}, bson.M{"payment_status": paymentStatus})
}

func (r *patientRepo) updateOne(ctx context.Context, filter, set bson.M) (*models.Patient, error) {
	var p models.Patient
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *patientRepo) Delete(ctx context.Context, id models.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
