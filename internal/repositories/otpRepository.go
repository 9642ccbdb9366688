package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"toolscout/internal/database"
	"toolscout/internal/models"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	FindByUserEmailAndOTPCodeAndPurpose(ctx context.Context, email string, otpCode string, purpose string) (*models.OTP, error)
	MarkAsUsed(ctx context.Context, otpID primitive.ObjectID) error
	DeleteExpiredOTPs(ctx context.Context) error
}

type otpRepository struct {
	db       database.Service
	userRepo UserRepository
}

func NewOTPRepository(db database.Service, userRepo UserRepository) OTPRepository {
	return &otpRepository{db: db, userRepo: userRepo}
}

func (r *otpRepository) collection() *mongo.Collection {
	return r.db.Client().Database("toolscout").Collection("otps")
}

func (r *otpRepository) Create(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = time.Now()
	otp.UpdatedAt = time.Now()
	_, err := r.collection().InsertOne(ctx, otp)
	if err != nil {
		return nil, err
	}
	return otp, nil
}

func (r *otpRepository) FindByUserEmailAndOTPCodeAndPurpose(ctx context.Context, email string, otpCode string, purpose string) (*models.OTP, error) {
	user, err := r.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	var otp models.OTP
	filter := bson.M{"user_id": user.ID, "otp_code": otpCode, "purpose": purpose, "is_used": false, "expires_at": bson.M{"$gt": time.Now()}}
	err = r.collection().FindOne(ctx, filter).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) MarkAsUsed(ctx context.Context, otpID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_used": true, "updated_at": time.Now()}}
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": otpID}, update)
	return err
}

func (r *otpRepository) DeleteExpiredOTPs(ctx context.Context) error {
	filter := bson.M{"expires_at": bson.M{"$lt": time.Now()}, "is_used": false}
	_, err := r.collection().DeleteMany(ctx, filter)
	return err
}
