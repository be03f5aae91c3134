package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDealRecordRepository implements DealRecordRepository
type MongoDealRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoDealRecordRepository creates a new deal record repository
func NewMongoDealRecordRepository(ctx context.Context, db *mongo.Database) (repository.DealRecordRepository, error) {
	collection := db.Collection("deal_records")

	// One record per route
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"routeKey": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("create deal_records index: %w", err)
	}

	return &MongoDealRecordRepository{
		collection: collection,
	}, nil
}

// FindByRouteKey finds the last alert for a route.
// It returns entity.ErrNotFound when the route was never alerted.
func (r *MongoDealRecordRepository) FindByRouteKey(ctx context.Context, routeKey string) (*entity.DealRecord, error) {
	var record entity.DealRecord
	err := r.collection.FindOne(ctx, bson.M{"routeKey": routeKey}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert creates or replaces the record for the route
func (r *MongoDealRecordRepository) Upsert(ctx context.Context, record *entity.DealRecord) error {
	now := time.Now()
	record.UpdatedAt = now
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	updateDoc := bson.M{
		"routeKey":    record.RouteKey,
		"origin":      record.Origin,
		"destination": record.Destination,
		"price":       record.Price,
		"currency":    record.Currency,
		"outDate":     record.OutDate,
		"returnDate":  record.ReturnDate,
		"messageId":   record.MessageID,
		"runId":       record.RunID,
		"notifiedAt":  record.NotifiedAt,
		"updatedAt":   record.UpdatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"routeKey": record.RouteKey}

	result, err := r.collection.UpdateOne(
		ctx,
		filter,
		bson.M{
			"$set":         updateDoc,
			"$setOnInsert": bson.M{"createdAt": record.CreatedAt},
		},
		opts,
	)
	if err != nil {
		return err
	}

	// If it was an insert, we need to get the new ID
	if result.UpsertedCount > 0 {
		if id, ok := result.UpsertedID.(primitive.ObjectID); ok {
			record.ID = id.Hex()
		}
	}

	return nil
}
