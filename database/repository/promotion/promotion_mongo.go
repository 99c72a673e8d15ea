package promotionRepo

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

type mongoPromotionRepo struct {
	coll *mongo.Collection
}

// NewMongoPromotionRepo returns a PromotionRepository backed by the
// "promotions" collection.
func NewMongoPromotionRepo() PromotionRepository {
	return &mongoPromotionRepo{coll: database.Collection("promotions")}
}

func (r *mongoPromotionRepo) GetByID(ctx context.Context, id string) (*models.Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var promotion models.Promotion
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&promotion)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch promotion %s: %w", id, err)
	}
	return &promotion, nil
}

func (r *mongoPromotionRepo) ListActive(ctx context.Context) ([]models.Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("list active promotions: %w", err)
	}
	defer cursor.Close(ctx)

	var promotions []models.Promotion
	if err := cursor.All(ctx, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *mongoPromotionRepo) Create(ctx context.Context, promotion *models.Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, promotion); err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}
