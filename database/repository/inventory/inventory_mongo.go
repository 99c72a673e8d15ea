package inventoryRepo

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

type mongoInventoryRepo struct {
	coll *mongo.Collection
}

// NewMongoInventoryRepo returns an InventoryRepository backed by the
// "inventory_units" collection.
func NewMongoInventoryRepo() InventoryRepository {
	return &mongoInventoryRepo{coll: database.Collection("inventory_units")}
}

func (r *mongoInventoryRepo) GetByID(ctx context.Context, id string) (*models.InventoryUnit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var unit models.InventoryUnit
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&unit)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch inventory unit %s: %w", id, err)
	}
	return &unit, nil
}

func (r *mongoInventoryRepo) GetByOfferingID(ctx context.Context, offeringID string) ([]models.InventoryUnit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"offering_id": offeringID})
	if err != nil {
		return nil, fmt.Errorf("list inventory units for offering %s: %w", offeringID, err)
	}
	defer cursor.Close(ctx)

	var units []models.InventoryUnit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}

func (r *mongoInventoryRepo) Create(ctx context.Context, unit *models.InventoryUnit) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if unit.ID == "" {
		unit.ID = uuid.New().String()
	}
	if unit.EventBased() {
		unit.CapacityAvailable = unit.TotalCapacity
	}
	if _, err := r.coll.InsertOne(ctx, unit); err != nil {
		return fmt.Errorf("insert inventory unit: %w", err)
	}
	return nil
}

func (r *mongoInventoryRepo) AdjustEventCapacity(ctx context.Context, unitID string, delta int) error {
	filter := bson.M{"id": unitID}
	if delta < 0 {
		// Guarded decrement: only match while enough capacity remains.
		filter["capacity_available"] = bson.M{"$gte": -delta}
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"capacity_available": delta}})
	if err != nil {
		return fmt.Errorf("adjust capacity for unit %s: %w", unitID, err)
	}
	if res.MatchedCount == 0 {
		if delta < 0 {
			return ErrInsufficientCapacity
		}
		return ErrNotFound
	}
	return nil
}

func (r *mongoInventoryRepo) TouchUnit(ctx context.Context, unitID string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": unitID}, bson.M{"$inc": bson.M{"version": 1}})
	if err != nil {
		return fmt.Errorf("touch unit %s: %w", unitID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
