package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailhead/tours-api/internal/core/domain"
	"github.com/trailhead/tours-api/internal/core/ports"
)

const tourCollection = "tours"

type MongoTourRepository struct {
	coll *mongo.Collection
}

func NewTourRepository(db *mongo.Database) *MongoTourRepository {
	return &MongoTourRepository{coll: db.Collection(tourCollection)}
}

type tourDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Slug            string             `bson:"slug"`
	Duration        int                `bson:"duration"`
	MaxGroupSize    int                `bson:"max_group_size"`
	Difficulty      string             `bson:"difficulty"`
	Price           float64            `bson:"price"`
	Summary         string             `bson:"summary"`
	Description     string             `bson:"description,omitempty"`
	RatingsAverage  float64            `bson:"ratings_average"`
	RatingsQuantity int64              `bson:"ratings_quantity"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (r *MongoTourRepository) Create(ctx context.Context, tour *domain.Tour) (*domain.Tour, error) {
	doc := tourDoc{
		Name:            tour.Name,
		Slug:            tour.Slug,
		Duration:        tour.Duration,
		MaxGroupSize:    tour.MaxGroupSize,
		Difficulty:      string(tour.Difficulty),
		Price:           tour.Price,
		Summary:         tour.Summary,
		Description:     tour.Description,
		RatingsAverage:  tour.RatingsAverage,
		RatingsQuantity: tour.RatingsQuantity,
		CreatedAt:       tour.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrTourExists
		}
		return nil, fmt.Errorf("insert tour: %w", err)
	}

	created := *tour
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoTourRepository) FindByID(ctx context.Context, id string) (*domain.Tour, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTourNotFound
	}

	var doc tourDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTourNotFound
		}
		return nil, fmt.Errorf("find tour: %w", err)
	}
	return docToTour(&doc), nil
}

func (r *MongoTourRepository) List(ctx context.Context) ([]domain.Tour, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	defer cur.Close(ctx)

	var tours []domain.Tour
	for cur.Next(ctx) {
		var doc tourDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode tour: %w", err)
		}
		tours = append(tours, *docToTour(&doc))
	}
	return tours, cur.Err()
}

func (r *MongoTourRepository) Update(ctx context.Context, id string, patch ports.TourPatch) (*domain.Tour, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTourNotFound
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Slug != nil {
		set["slug"] = *patch.Slug
	}
	if patch.Duration != nil {
		set["duration"] = *patch.Duration
	}
	if patch.MaxGroupSize != nil {
		set["max_group_size"] = *patch.MaxGroupSize
	}
	if patch.Difficulty != nil {
		set["difficulty"] = string(*patch.Difficulty)
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Summary != nil {
		set["summary"] = *patch.Summary
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var doc tourDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTourNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrTourExists
		}
		return nil, fmt.Errorf("update tour: %w", err)
	}
	return docToTour(&doc), nil
}

func (r *MongoTourRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTourNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete tour: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTourNotFound
	}
	return nil
}

// UpdateRatingSummary targets exactly one tour document, so interleaved
// recomputes for different tours never contend.
func (r *MongoTourRepository) UpdateRatingSummary(ctx context.Context, id string, summary domain.RatingSummary) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTourNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"ratings_average":  summary.Average,
			"ratings_quantity": summary.Quantity,
		},
	})
	if err != nil {
		return fmt.Errorf("update rating summary: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTourNotFound
	}
	return nil
}

func docToTour(doc *tourDoc) *domain.Tour {
	return &domain.Tour{
		ID:              doc.ID.Hex(),
		Name:            doc.Name,
		Slug:            doc.Slug,
		Duration:        doc.Duration,
		MaxGroupSize:    doc.MaxGroupSize,
		Difficulty:      domain.TourDifficulty(doc.Difficulty),
		Price:           doc.Price,
		Summary:         doc.Summary,
		Description:     doc.Description,
		RatingsAverage:  doc.RatingsAverage,
		RatingsQuantity: doc.RatingsQuantity,
		CreatedAt:       doc.CreatedAt,
	}
}
