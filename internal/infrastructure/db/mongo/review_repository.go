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

const reviewCollection = "reviews"

type MongoReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{coll: db.Collection(reviewCollection)}
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Rating    int                `bson:"rating"`
	TourID    primitive.ObjectID `bson:"tour_id"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *MongoReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	tourID, err := primitive.ObjectIDFromHex(review.TourID)
	if err != nil {
		return nil, domain.ErrTourNotFound
	}
	authorID, err := primitive.ObjectIDFromHex(review.AuthorID)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	doc := reviewDoc{
		Text:      review.Text,
		Rating:    review.Rating,
		TourID:    tourID,
		AuthorID:  authorID,
		CreatedAt: review.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateReview
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}

	created := *review
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}

	var doc reviewDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return docToReview(&doc), nil
}

func (r *MongoReviewRepository) List(ctx context.Context, tourID string) ([]domain.Review, error) {
	filter := bson.M{}
	if tourID != "" {
		oid, err := primitive.ObjectIDFromHex(tourID)
		if err != nil {
			return nil, domain.ErrTourNotFound
		}
		filter["tour_id"] = oid
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var reviews []domain.Review
	for cur.Next(ctx) {
		var doc reviewDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, *docToReview(&doc))
	}
	return reviews, cur.Err()
}

func (r *MongoReviewRepository) Update(ctx context.Context, id string, patch ports.ReviewPatch) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}

	set := bson.M{}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var doc reviewDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review: %w", err)
	}
	return docToReview(&doc), nil
}

func (r *MongoReviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrReviewNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// AggregateRatings groups the tour's reviews into count and mean. A tour
// with no reviews produces no group; callers apply the documented default.
func (r *MongoReviewRepository) AggregateRatings(ctx context.Context, tourID string) (*domain.RatingSummary, error) {
	oid, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return nil, domain.ErrTourNotFound
	}

	pipeline := []bson.M{
		{"$match": bson.M{"tour_id": oid}},
		{"$group": bson.M{
			"_id":    "$tour_id",
			"count":  bson.M{"$sum": 1},
			"rating": bson.M{"$avg": "$rating"},
		}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	var results []struct {
		Count  int64   `bson:"count"`
		Rating float64 `bson:"rating"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode rating aggregation: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	return &domain.RatingSummary{Quantity: results[0].Count, Average: results[0].Rating}, nil
}

func docToReview(doc *reviewDoc) *domain.Review {
	return &domain.Review{
		ID:        doc.ID.Hex(),
		Text:      doc.Text,
		Rating:    doc.Rating,
		TourID:    doc.TourID.Hex(),
		AuthorID:  doc.AuthorID.Hex(),
		CreatedAt: doc.CreatedAt,
	}
}
