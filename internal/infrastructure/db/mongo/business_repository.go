package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

const businessCollection = "businesses"

// BusinessRepository persists tracked business documents.
type BusinessRepository struct {
	coll *mongo.Collection
}

func NewBusinessRepository(db *mongo.Database) *BusinessRepository {
	return &BusinessRepository{coll: db.Collection(businessCollection)}
}

type businessDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	AccountID         string             `bson:"account_id"`
	Name              string             `bson:"name"`
	FacebookAdAccount string             `bson:"facebook_ad_account,omitempty"`
	TikTokAdAccount   string             `bson:"tiktok_ad_account,omitempty"`
	FacebookPixel     string             `bson:"facebook_pixel,omitempty"`
	CreatedAt         int64              `bson:"created_at"`
	UpdatedAt         int64              `bson:"updated_at"`
}

func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*domain.Business, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBusinessNotFound
	}
	var doc businessDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("find business: %w", err)
	}
	return docToBusiness(&doc), nil
}

func (r *BusinessRepository) Create(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	doc := businessDoc{
		AccountID:         business.AccountID,
		Name:              business.Name,
		FacebookAdAccount: business.FacebookAdAccount,
		TikTokAdAccount:   business.TikTokAdAccount,
		FacebookPixel:     business.FacebookPixel,
		CreatedAt:         business.CreatedAt.Unix(),
		UpdatedAt:         business.UpdatedAt.Unix(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert business: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return docToBusiness(&doc), nil
}

func (r *BusinessRepository) Update(ctx context.Context, id string, update ports.BusinessUpdate) (*domain.Business, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBusinessNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.FacebookAdAccount != nil {
		set["facebook_ad_account"] = *update.FacebookAdAccount
	}
	if update.TikTokAdAccount != nil {
		set["tiktok_ad_account"] = *update.TikTokAdAccount
	}
	if update.FacebookPixel != nil {
		set["facebook_pixel"] = *update.FacebookPixel
	}

	var doc businessDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("update business: %w", err)
	}
	return docToBusiness(&doc), nil
}

func (r *BusinessRepository) ListByAccount(ctx context.Context, accountID string, page, limit int) ([]domain.Business, int64, error) {
	filter := bson.M{"account_id": accountID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count businesses: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.Business
	for cursor.Next(ctx) {
		var doc businessDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode business: %w", err)
		}
		items = append(items, *docToBusiness(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate businesses: %w", err)
	}
	return items, total, nil
}

func (r *BusinessRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return total, nil
}

func docToBusiness(doc *businessDoc) *domain.Business {
	return &domain.Business{
		ID:                doc.ID.Hex(),
		AccountID:         doc.AccountID,
		Name:              doc.Name,
		FacebookAdAccount: doc.FacebookAdAccount,
		TikTokAdAccount:   doc.TikTokAdAccount,
		FacebookPixel:     doc.FacebookPixel,
		CreatedAt:         unixToTime(doc.CreatedAt),
		UpdatedAt:         unixToTime(doc.UpdatedAt),
	}
}
