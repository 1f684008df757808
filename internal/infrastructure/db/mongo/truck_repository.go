package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dockside/truck-management/internal/core/domain"
	"github.com/dockside/truck-management/internal/core/ports"
)

const trucksCollection = "trucks"

// TruckRepository persists truck records in MongoDB. It implements
// ports.TruckRepository.
type TruckRepository struct {
	collection *mongo.Collection
}

func NewTruckRepository(db *mongo.Database) *TruckRepository {
	return &TruckRepository{collection: db.Collection(trucksCollection)}
}

// EnsureIndexes creates the indexes the repository relies on: truck_no for
// import reconciliation lookups, terminal for list filters, and created_at
// for the default sort order.
func (r *TruckRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "truck_no", Value: 1}}},
		{Keys: bson.D{{Key: "terminal", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create truck indexes: %w", err)
	}
	return nil
}

func (r *TruckRepository) Insert(ctx context.Context, truck *domain.Truck) error {
	if _, err := r.collection.InsertOne(ctx, truck); err != nil {
		return fmt.Errorf("insert truck: %w", err)
	}
	return nil
}

func (r *TruckRepository) FindByID(ctx context.Context, id string) (*domain.Truck, error) {
	var truck domain.Truck
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&truck)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrTruckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find truck %s: %w", id, err)
	}
	return &truck, nil
}

func (r *TruckRepository) FindByTruckNo(ctx context.Context, truckNo string) (*domain.Truck, error) {
	var truck domain.Truck
	err := r.collection.FindOne(ctx, bson.M{"truck_no": truckNo}).Decode(&truck)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrTruckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find truck by number %s: %w", truckNo, err)
	}
	return &truck, nil
}

func (r *TruckRepository) List(ctx context.Context, filter ports.ListTrucksFilter) ([]*domain.Truck, error) {
	query := bson.M{}
	if filter.Terminal != "" {
		query["terminal"] = filter.Terminal
	}
	if filter.StatusPreparation != "" {
		query["status_preparation"] = filter.StatusPreparation
	}
	if filter.StatusLoading != "" {
		query["status_loading"] = filter.StatusLoading
	}
	if created := dateRange(filter.DateFrom, filter.DateTo); len(created) > 0 {
		query["created_at"] = created
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list trucks: %w", err)
	}
	defer cursor.Close(ctx)

	trucks := make([]*domain.Truck, 0)
	if err := cursor.All(ctx, &trucks); err != nil {
		return nil, fmt.Errorf("decode trucks: %w", err)
	}
	return trucks, nil
}

// Update applies a partial patch and returns the document as it stands
// after the write.
func (r *TruckRepository) Update(ctx context.Context, id string, patch ports.TruckPatch) (*domain.Truck, error) {
	set := bson.M{"updated_at": patch.UpdatedAt}
	setField(set, "terminal", patch.Terminal)
	setField(set, "truck_no", patch.TruckNo)
	setField(set, "dock_code", patch.DockCode)
	setField(set, "truck_route", patch.TruckRoute)
	if patch.ReplaceTimes {
		// Nil pointers write null, clearing any stored time.
		set["preparation_start"] = patch.PreparationStart
		set["preparation_end"] = patch.PreparationEnd
		set["loading_start"] = patch.LoadingStart
		set["loading_end"] = patch.LoadingEnd
	} else {
		setField(set, "preparation_start", patch.PreparationStart)
		setField(set, "preparation_end", patch.PreparationEnd)
		setField(set, "loading_start", patch.LoadingStart)
		setField(set, "loading_end", patch.LoadingEnd)
	}
	if patch.StatusPreparation != nil {
		set["status_preparation"] = *patch.StatusPreparation
	}
	if patch.StatusLoading != nil {
		set["status_loading"] = *patch.StatusLoading
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated domain.Truck
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrTruckNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update truck %s: %w", id, err)
	}
	return &updated, nil
}

func (r *TruckRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete truck %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTruckNotFound
	}
	return nil
}

func setField(set bson.M, key string, value *string) {
	if value != nil {
		set[key] = *value
	}
}

func dateRange(from, to time.Time) bson.M {
	created := bson.M{}
	if !from.IsZero() {
		created["$gte"] = from
	}
	if !to.IsZero() {
		created["$lte"] = to
	}
	return created
}
