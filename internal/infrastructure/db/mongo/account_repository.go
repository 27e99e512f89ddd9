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

const accountCollection = "accounts"

// MongoAccountRepository persists accounts. All default lookups carry an
// explicit active-account predicate so soft-deleted accounts stay invisible.
type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(accountCollection)}
}

type accountDoc struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	Name                   string             `bson:"name"`
	Email                  string             `bson:"email"`
	Photo                  string             `bson:"photo,omitempty"`
	Role                   string             `bson:"role"`
	PasswordHash           string             `bson:"password_hash"`
	PasswordChangedAt      *time.Time         `bson:"password_changed_at,omitempty"`
	PasswordResetTokenHash string             `bson:"password_reset_token_hash,omitempty"`
	PasswordResetExpiresAt *time.Time         `bson:"password_reset_expires_at,omitempty"`
	Active                 bool               `bson:"active"`
	CreatedAt              time.Time          `bson:"created_at"`
	UpdatedAt              time.Time          `bson:"updated_at"`
}

// withActive adds the soft-delete predicate to a filter. Every read path
// goes through here unless it deliberately targets inactive accounts.
func withActive(filter bson.M) bson.M {
	filter["active"] = bson.M{"$ne": false}
	return filter
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := accountDoc{
		Name:              account.Name,
		Email:             account.Email,
		Photo:             account.Photo,
		Role:              account.Role,
		PasswordHash:      account.PasswordHash,
		PasswordChangedAt: account.PasswordChangedAt,
		Active:            true,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.Active = true
	return &created, nil
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, withActive(bson.M{"_id": oid}))
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, withActive(bson.M{"email": email}))
}

func (r *MongoAccountRepository) FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	return r.findOne(ctx, withActive(bson.M{
		"password_reset_token_hash": tokenHash,
		"password_reset_expires_at": bson.M{"$gt": now},
	}))
}

func (r *MongoAccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	cur, err := r.coll.Find(ctx, withActive(bson.M{}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var accounts []domain.Account
	for cur.Next(ctx) {
		var doc accountDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		accounts = append(accounts, *docToAccount(&doc))
	}
	return accounts, cur.Err()
}

func (r *MongoAccountRepository) UpdateProfile(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Photo != nil {
		set["photo"] = *patch.Photo
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}

	var doc accountDoc
	err = r.coll.FindOneAndUpdate(ctx,
		withActive(bson.M{"_id": oid}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return docToAccount(&doc), nil
}

// SetPassword writes the new hash and change timestamp and clears any
// in-flight reset-token state in one atomic document update.
func (r *MongoAccountRepository) SetPassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	res, err := r.coll.UpdateOne(ctx, withActive(bson.M{"_id": oid}), bson.M{
		"$set": bson.M{
			"password_hash":       passwordHash,
			"password_changed_at": changedAt,
			"updated_at":          time.Now().UTC(),
		},
		"$unset": bson.M{
			"password_reset_token_hash": "",
			"password_reset_expires_at": "",
		},
	})
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	res, err := r.coll.UpdateOne(ctx, withActive(bson.M{"_id": oid}), bson.M{
		"$set": bson.M{
			"password_reset_token_hash": tokenHash,
			"password_reset_expires_at": expiresAt,
			"updated_at":                time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) ClearResetToken(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$unset": bson.M{
			"password_reset_token_hash": "",
			"password_reset_expires_at": "",
		},
	})
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}

func (r *MongoAccountRepository) Deactivate(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	res, err := r.coll.UpdateOne(ctx, withActive(bson.M{"_id": oid}), bson.M{
		"$set": bson.M{"active": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return docToAccount(&doc), nil
}

func docToAccount(doc *accountDoc) *domain.Account {
	return &domain.Account{
		ID:                     doc.ID.Hex(),
		Name:                   doc.Name,
		Email:                  doc.Email,
		Photo:                  doc.Photo,
		Role:                   doc.Role,
		PasswordHash:           doc.PasswordHash,
		PasswordChangedAt:      doc.PasswordChangedAt,
		PasswordResetTokenHash: doc.PasswordResetTokenHash,
		PasswordResetExpiresAt: doc.PasswordResetExpiresAt,
		Active:                 doc.Active,
		CreatedAt:              doc.CreatedAt,
		UpdatedAt:              doc.UpdatedAt,
	}
}
