package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"diagnostics-backend/internal/models"
)

type contactRepo struct {
	col *mongo.Collection
}

func (r *contactRepo) Create(ctx context.Context, f *models.ContactForm) error {
	f.ID = models.NewObjectID()
	_, err := r.col.InsertOne(ctx, f)
	return translate(err)
}
