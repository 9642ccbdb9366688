package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"toolscout/internal/models"
	"toolscout/internal/repositories"
	"toolscout/internal/utils"
)

const (
	OTPExpirationMinutes    = 10
	OTPPurposeResetPassword = "reset_password"
)

type OTPService interface {
	GenerateOTPForgotPassword(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, otpCode string) error
	ResetPassword(ctx context.Context, email, otpCode, newPassword string) error
}

type otpService struct {
	userRepo     repositories.UserRepository
	otpRepo      repositories.OTPRepository
	emailService EmailService
}

func NewOTPService(userRepo repositories.UserRepository, otpRepo repositories.OTPRepository, emailService EmailService) OTPService {
	s := &otpService{userRepo: userRepo, otpRepo: otpRepo, emailService: emailService}
	go s.cleanupExpiredPeriodically()
	return s
}

func (s *otpService) cleanupExpiredPeriodically() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s.otpRepo.DeleteExpiredOTPs(ctx); err != nil {
			log.Error().Err(err).Msg("Error deleting expired OTPs")
		}
		cancel()
	}
}

func (s *otpService) GenerateOTPForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", errors.New("user not found")
		}
		return "", err
	}

	otpCode, err := utils.GenerateSecureOTP(6)
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(OTPExpirationMinutes * time.Minute)

	otp := &models.OTP{
		UserID:    user.ID,
		OTPCode:   otpCode,
		Purpose:   OTPPurposeResetPassword,
		ExpiresAt: expiresAt,
		IsUsed:    false,
	}

	_, err = s.otpRepo.Create(ctx, otp)
	if err != nil {
		return "", err
	}

	subject := "Your Password Reset OTP"
	body := fmt.Sprintf("Your OTP for password reset is: %s", otpCode)
	if err := s.emailService.SendEmail(email, subject, body); err != nil {
		return "", err
	}

	return otpCode, nil
}

func (s *otpService) VerifyOTP(ctx context.Context, email, otpCode string) error {
	otp, err := s.otpRepo.FindByUserEmailAndOTPCodeAndPurpose(ctx, email, otpCode, OTPPurposeResetPassword)
	if err != nil {
		return err
	}
	if otp == nil {
		return errors.New("invalid or expired OTP")
	}

	if otp.IsUsed {
		return errors.New("OTP already used")
	}

	if time.Now().After(otp.ExpiresAt) {
		return errors.New("OTP expired")
	}

	return s.otpRepo.MarkAsUsed(ctx, otp.ID)
}

func (s *otpService) ResetPassword(ctx context.Context, email, otpCode, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if err := s.VerifyOTP(ctx, email, otpCode); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return errors.New("user not found")
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), 8)
	if err != nil {
		return err
	}

	_, err = s.userRepo.Update(ctx, user.ID, bson.M{"password": string(hashed)})
	return err
}
