package offeringRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voyago/database"
	"voyago/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoOfferingRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferingRepo returns an OfferingRepository backed by the
// "offerings" collection.
func NewMongoOfferingRepo() OfferingRepository {
	return &mongoOfferingRepo{coll: database.Collection("offerings")}
}

func (r *mongoOfferingRepo) GetByID(ctx context.Context, id string) (*models.Offering, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var offering models.Offering
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&offering)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch offering %s: %w", id, err)
	}
	return &offering, nil
}

func (r *mongoOfferingRepo) Create(ctx context.Context, offering *models.Offering) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if offering.ID == "" {
		offering.ID = uuid.New().String()
	}
	offering.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, offering); err != nil {
		return fmt.Errorf("insert offering: %w", err)
	}
	return nil
}

func (r *mongoOfferingRepo) SetPublished(ctx context.Context, id string, published bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"published": published}})
	if err != nil {
		return fmt.Errorf("update offering %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
