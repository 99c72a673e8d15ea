package ledgerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voyago/database"
	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoLedgerRepo struct {
	bookingColl *mongo.Collection
	itemColl    *mongo.Collection
}

// NewMongoLedgerRepo returns a LedgerRepository backed by the "bookings" and
// "booking_items" collections.
func NewMongoLedgerRepo() LedgerRepository {
	return &mongoLedgerRepo{
		bookingColl: database.Collection("bookings"),
		itemColl:    database.Collection("booking_items"),
	}
}

func (r *mongoLedgerRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if _, err := r.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *mongoLedgerRepo) CreateItems(ctx context.Context, items []models.BookingItem) error {
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	if _, err := r.itemColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert booking items: %w", err)
	}
	return nil
}

func (r *mongoLedgerRepo) DeleteBooking(ctx context.Context, bookingID string) error {
	if _, err := r.itemColl.DeleteMany(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("delete items of booking %s: %w", bookingID, err)
	}
	if _, err := r.bookingColl.DeleteOne(ctx, bson.M{"id": bookingID}); err != nil {
		return fmt.Errorf("delete booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *mongoLedgerRepo) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (r *mongoLedgerRepo) GetItemsByBookingID(ctx context.Context, bookingID string) ([]models.BookingItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := r.itemColl.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list items of booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var items []models.BookingItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoLedgerRepo) ListByGuestID(ctx context.Context, guestID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.bookingColl.Find(ctx, bson.M{"guest_id": guestID})
	if err != nil {
		return nil, fmt.Errorf("list bookings for guest %s: %w", guestID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *mongoLedgerRepo) CountPriorBookingsByGuest(ctx context.Context, guestID string) (int, error) {
	count, err := r.bookingColl.CountDocuments(ctx, bson.M{
		"guest_id": guestID,
		"status":   bson.M{"$ne": models.StatusCancelled},
	})
	if err != nil {
		return 0, fmt.Errorf("count bookings for guest %s: %w", guestID, err)
	}
	return int(count), nil
}

// ReservedRoomQuantity aggregates over booking items. Stay boundaries are
// ISO dates, so the half-open overlap test works as string comparison:
// check_in < reqEnd AND check_out > reqStart.
func (r *mongoLedgerRepo) ReservedRoomQuantity(ctx context.Context, unitID string, rng models.DateRange) (int, error) {
	reqStart := rng.CheckIn.Format("2006-01-02")
	reqEnd := rng.CheckOut.Format("2006-01-02")

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"status":                  bson.M{"$in": models.ActiveStatuses},
			"selection.rooms.unit_id": unitID,
			"check_in":                bson.M{"$lt": reqEnd},
			"check_out":               bson.M{"$gt": reqStart},
		}}},
		bson.D{{Key: "$unwind", Value: "$selection.rooms"}},
		bson.D{{Key: "$match", Value: bson.M{"selection.rooms.unit_id": unitID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"reserved": bson.M{"$sum": "$selection.rooms.quantity"},
		}}},
	}

	cursor, err := r.itemColl.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate reserved quantity for unit %s: %w", unitID, err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Reserved int `bson:"reserved"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Reserved, nil
}

func (r *mongoLedgerRepo) SetPaymentRef(ctx context.Context, id, ref string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.bookingColl.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"payment_ref": ref}})
	if err != nil {
		return fmt.Errorf("set payment ref on booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoLedgerRepo) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking, err := r.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}
	if !booking.Status.CanTransitionTo(status) {
		return fmt.Errorf("illegal status transition %s -> %s for booking %s", booking.Status, status, id)
	}

	now := time.Now().UTC()
	res, err := r.bookingColl.UpdateOne(ctx,
		bson.M{"id": id, "status": booking.Status},
		bson.M{"$set": bson.M{"status": status, "updated_at": now}},
	)
	if err != nil {
		return fmt.Errorf("update booking %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if _, err := r.itemColl.UpdateMany(ctx,
		bson.M{"booking_id": id},
		bson.M{"$set": bson.M{"status": status}},
	); err != nil {
		return fmt.Errorf("update items of booking %s status: %w", id, err)
	}
	return nil
}

func (r *mongoLedgerRepo) ListExpiredDrafts(ctx context.Context, before time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.bookingColl.Find(ctx, bson.M{
		"status":     models.StatusDraft,
		"created_at": bson.M{"$lt": before},
	})
	if err != nil {
		return nil, fmt.Errorf("list expired drafts: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// WithTransaction runs fn inside a mongo session transaction. Repository
// calls made with the session context join the transaction, so the
// availability re-check and the booking writes commit or abort as one.
func (r *mongoLedgerRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}
