package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

const promoCollection = "promo_codes"

// PromoRepository persists single-use promotional codes. Redemption is a
// conditional findOneAndUpdate so two concurrent claims cannot both win.
type PromoRepository struct {
	coll *mongo.Collection
}

func NewPromoRepository(db *mongo.Database) *PromoRepository {
	return &PromoRepository{coll: db.Collection(promoCollection)}
}

type promoDoc struct {
	Code       string `bson:"_id"`
	PlanID     string `bson:"plan_id,omitempty"`
	TrialDays  int    `bson:"trial_days,omitempty"`
	RedeemedBy string `bson:"redeemed_by,omitempty"`
	RedeemedAt int64  `bson:"redeemed_at,omitempty"`
}

func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var doc promoDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": code}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPromoNotFound
		}
		return nil, fmt.Errorf("find promo: %w", err)
	}
	return docToPromo(&doc), nil
}

func (r *PromoRepository) Redeem(ctx context.Context, code, accountID string) (*domain.PromoCode, error) {
	filter := bson.M{
		"_id":         code,
		"redeemed_by": bson.M{"$in": bson.A{nil, ""}},
	}
	update := bson.M{"$set": bson.M{
		"redeemed_by": accountID,
		"redeemed_at": time.Now().UTC().Unix(),
	}}

	var doc promoDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err == nil {
		return docToPromo(&doc), nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("redeem promo: %w", err)
	}

	// Either the code does not exist or someone already claimed it.
	if _, findErr := r.FindByCode(ctx, code); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrPromoRedeemed
}

func docToPromo(doc *promoDoc) *domain.PromoCode {
	return &domain.PromoCode{
		Code:       doc.Code,
		PlanID:     doc.PlanID,
		TrialDays:  doc.TrialDays,
		RedeemedBy: doc.RedeemedBy,
		RedeemedAt: unixToTime(doc.RedeemedAt),
	}
}
