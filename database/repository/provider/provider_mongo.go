package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"medconnect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a provider repository on the "providers" collection of db.
func NewMongoProviderRepo(db *mongo.Database) *MongoProviderRepo {
	return NewMongoProviderRepoWithCollection(db.Collection("providers"))
}

func NewMongoProviderRepoWithCollection(coll *mongo.Collection) *MongoProviderRepo {
	return &MongoProviderRepo{coll: coll}
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var provider models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
	}
	return &provider, nil
}

func (r *MongoProviderRepo) GetAll(ctx context.Context) ([]models.Provider, error) {
	return r.Search(ctx, ProviderSearchCriteria{})
}

func (r *MongoProviderRepo) Search(ctx context.Context, criteria ProviderSearchCriteria) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if criteria.Specialty != "" {
		filter["specialty"] = criteria.Specialty
	}
	if criteria.Query != "" {
		pattern := regexp.QuoteMeta(criteria.Query)
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"specialty": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"location": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}

func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	now := time.Now()
	if provider.CreatedAt.IsZero() {
		provider.CreatedAt = now
	}
	provider.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *MongoProviderRepo) AddBookedSlot(ctx context.Context, id, date, slot string) error {
	return r.updateSchedule(ctx, id, bson.M{
		"$addToSet": bson.M{"bookedSlots." + date: slot},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoProviderRepo) RemoveBookedSlot(ctx context.Context, id, date, slot string) error {
	return r.updateSchedule(ctx, id, bson.M{
		"$pull": bson.M{"bookedSlots." + date: slot},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoProviderRepo) updateSchedule(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update schedule for provider %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrProviderNotFound, id)
	}
	return nil
}
