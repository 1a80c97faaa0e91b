package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"snochat-be/internal/config"
	"snochat-be/internal/dto"
	"snochat-be/internal/entity"
	"snochat-be/internal/pkg/apperr"
	"snochat-be/internal/pkg/logger"
	"snochat-be/internal/repository/memory"
	"snochat-be/internal/repository/specification"
	"snochat-be/internal/repository/unitofwork"
	"snochat-be/pkg/events"
	pktNats "snochat-be/pkg/nats"
	"snochat-be/pkg/sms"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Signup(ctx context.Context, request *dto.SignupRequest) error
	VerifyOtp(ctx context.Context, request *dto.VerifyOtpRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	otpStore       *memory.OtpStore
	smsSender      sms.ISender
	creditService  ICreditService
	eventPublisher *pktNats.Publisher
	jwtCfg         config.JWTConfig
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	otpStore *memory.OtpStore,
	smsSender sms.ISender,
	creditService ICreditService,
	eventPublisher *pktNats.Publisher,
	jwtCfg config.JWTConfig,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		otpStore:       otpStore,
		smsSender:      smsSender,
		creditService:  creditService,
		eventPublisher: eventPublisher,
		jwtCfg:         jwtCfg,
		logger:         log,
	}
}

func (s *authService) Signup(ctx context.Context, request *dto.SignupRequest) error {
	phone := normalizePhone(request.Phone)
	if phone == "" {
		return apperr.Validation("phone number is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByPhone{Phone: phone})
	if err != nil {
		return apperr.Storage("failed to look up user", err)
	}
	if existing != nil && existing.PhoneVerified {
		return apperr.Validation("phone number is already registered")
	}

	code, err := generateOtp()
	if err != nil {
		return apperr.Internal(err)
	}
	s.otpStore.Save(phone, code)

	if err := s.smsSender.SendVerificationCode(ctx, phone, code); err != nil {
		return apperr.Internal(fmt.Errorf("failed to send verification code: %w", err))
	}

	s.logger.Info("AuthService", "verification code sent", map[string]interface{}{
		"phone": phone,
	})
	return nil
}

func (s *authService) VerifyOtp(ctx context.Context, request *dto.VerifyOtpRequest) (*dto.AuthResponse, error) {
	phone := normalizePhone(request.Phone)

	if !s.otpStore.Verify(phone, request.Code) {
		return nil, apperr.Validation("invalid or expired verification code")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	taken, err := uow.UserRepository().Count(ctx, specification.ByUsername{Username: request.Username})
	if err != nil {
		return nil, apperr.Storage("failed to check username", err)
	}
	if taken > 0 {
		return nil, apperr.Validation("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	hashStr := string(hash)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByPhone{Phone: phone})
	if err != nil {
		return nil, apperr.Storage("failed to look up user", err)
	}

	now := time.Now()
	if user == nil {
		user = &entity.User{
			Id:            uuid.New(),
			Phone:         phone,
			Username:      request.Username,
			PasswordHash:  &hashStr,
			Status:        entity.UserStatusActive,
			PhoneVerified: true,
			CreatedAt:     now,
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, apperr.Storage("failed to create user", err)
		}
	} else {
		user.Username = request.Username
		user.PasswordHash = &hashStr
		user.Status = entity.UserStatusActive
		user.PhoneVerified = true
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, apperr.Storage("failed to update user", err)
		}
	}

	if err := s.creditService.EnsureDefaults(ctx, user.Id); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewUserSignedUp(user.Id, phone)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("AuthService", "failed to publish signup event", map[string]interface{}{
				"user_id": user.Id.String(),
				"error":   err.Error(),
			})
		}
	}

	token, err := s.issueToken(user.Id)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &dto.AuthResponse{UserId: user.Id, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The login field carries either a username or a phone number.
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: request.Login})
	if err != nil {
		return nil, apperr.Storage("failed to look up user", err)
	}
	if user == nil {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByPhone{Phone: normalizePhone(request.Login)})
		if err != nil {
			return nil, apperr.Storage("failed to look up user", err)
		}
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperr.Authorization("invalid username or password")
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, apperr.Authorization("account is blocked")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, apperr.Authorization("invalid username or password")
	}

	token, err := s.issueToken(user.Id)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &dto.AuthResponse{UserId: user.Id, Token: token}, nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperr.Storage("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	return &dto.MeResponse{
		UserId:   user.Id,
		Phone:    user.Phone,
		Username: user.Username,
	}, nil
}

func (s *authService) issueToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().AddDate(0, 0, s.jwtCfg.ExpiryDays).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

func normalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
