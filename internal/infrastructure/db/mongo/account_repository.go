package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

const accountCollection = "accounts"

// AccountRepository persists account documents. The _id is the identity
// provider's subject id, so lookups by caller are point reads.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type accountDoc struct {
	ID            string           `bson:"_id"`
	Email         string           `bson:"email"`
	FirstName     string           `bson:"first_name,omitempty"`
	LastName      string           `bson:"last_name,omitempty"`
	Role          string           `bson:"role"`
	Status        string           `bson:"status"`
	ManagerID     string           `bson:"manager_id,omitempty"`
	Subscription  subscriptionDoc  `bson:"subscription"`
	FacebookToken string           `bson:"facebook_token,omitempty"`
	TikTokToken   string           `bson:"tiktok_token,omitempty"`
	RecoveryHash  string           `bson:"recovery_hash,omitempty"`
	BusinessLimit int              `bson:"business_limit,omitempty"`
	CreatedAt     int64            `bson:"created_at"`
	UpdatedAt     int64            `bson:"updated_at"`
}

type subscriptionDoc struct {
	ID               string `bson:"id,omitempty"`
	Status           string `bson:"status,omitempty"`
	PlanID           string `bson:"plan_id,omitempty"`
	PriceID          string `bson:"price_id,omitempty"`
	CurrentPeriodEnd int64  `bson:"current_period_end,omitempty"`
	TrialEnd         int64  `bson:"trial_end,omitempty"`
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return docToAccount(&doc), nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if _, err := r.coll.InsertOne(ctx, accountToDoc(account)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, update ports.ProfileUpdate) (*domain.Account, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if update.FirstName != nil {
		set["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		set["last_name"] = *update.LastName
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *AccountRepository) SetAdToken(ctx context.Context, id string, network domain.AdNetwork, token string) error {
	_, err := r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		tokenField(network): token,
		"updated_at":        time.Now().UTC().Unix(),
	}})
	return err
}

func (r *AccountRepository) ClearAdToken(ctx context.Context, id string, network domain.AdNetwork) (*domain.Account, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$unset": bson.M{tokenField(network): ""},
		"$set":   bson.M{"updated_at": time.Now().UTC().Unix()},
	})
}

func (r *AccountRepository) UpdateSubscription(ctx context.Context, id string, sub domain.Subscription) error {
	_, err := r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"subscription": subscriptionToDoc(sub),
		"updated_at":   time.Now().UTC().Unix(),
	}})
	return err
}

func (r *AccountRepository) SetRecoveryHash(ctx context.Context, id string, hash string) error {
	_, err := r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"recovery_hash": hash,
		"updated_at":    time.Now().UTC().Unix(),
	}})
	return err
}

func (r *AccountRepository) SetStatus(ctx context.Context, id string, status string) error {
	_, err := r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Unix(),
	}})
	return err
}

func (r *AccountRepository) ListStaff(ctx context.Context, managerID string, page, limit int) ([]domain.Account, int64, error) {
	filter := bson.M{
		"role":       domain.RoleStaff,
		"manager_id": managerID,
		"status":     domain.AccountStatusActive,
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.Account
	for cursor.Next(ctx) {
		var doc accountDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode staff: %w", err)
		}
		items = append(items, *docToAccount(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate staff: %w", err)
	}
	return items, total, nil
}

func (r *AccountRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Account, error) {
	var doc accountDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return docToAccount(&doc), nil
}

func tokenField(network domain.AdNetwork) string {
	if network == domain.NetworkTikTok {
		return "tiktok_token"
	}
	return "facebook_token"
}

func accountToDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:            a.ID,
		Email:         a.Email,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Role:          a.Role,
		Status:        a.Status,
		ManagerID:     a.ManagerID,
		Subscription:  subscriptionToDoc(a.Subscription),
		FacebookToken: a.FacebookToken,
		TikTokToken:   a.TikTokToken,
		RecoveryHash:  a.RecoveryHash,
		BusinessLimit: a.BusinessLimit,
		CreatedAt:     a.CreatedAt.Unix(),
		UpdatedAt:     a.UpdatedAt.Unix(),
	}
}

func subscriptionToDoc(s domain.Subscription) subscriptionDoc {
	doc := subscriptionDoc{
		ID:      s.ID,
		Status:  s.Status,
		PlanID:  s.PlanID,
		PriceID: s.PriceID,
	}
	if !s.CurrentPeriodEnd.IsZero() {
		doc.CurrentPeriodEnd = s.CurrentPeriodEnd.Unix()
	}
	if !s.TrialEnd.IsZero() {
		doc.TrialEnd = s.TrialEnd.Unix()
	}
	return doc
}

func docToAccount(doc *accountDoc) *domain.Account {
	return &domain.Account{
		ID:        doc.ID,
		Email:     doc.Email,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Role:      doc.Role,
		Status:    doc.Status,
		ManagerID: doc.ManagerID,
		Subscription: domain.Subscription{
			ID:               doc.Subscription.ID,
			Status:           doc.Subscription.Status,
			PlanID:           doc.Subscription.PlanID,
			PriceID:          doc.Subscription.PriceID,
			CurrentPeriodEnd: unixToTime(doc.Subscription.CurrentPeriodEnd),
			TrialEnd:         unixToTime(doc.Subscription.TrialEnd),
		},
		FacebookToken: doc.FacebookToken,
		TikTokToken:   doc.TikTokToken,
		RecoveryHash:  doc.RecoveryHash,
		BusinessLimit: doc.BusinessLimit,
		CreatedAt:     unixToTime(doc.CreatedAt),
		UpdatedAt:     unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
