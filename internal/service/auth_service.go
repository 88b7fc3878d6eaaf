package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/youngtech-edu/records-api/internal/models"
	appErrors "github.com/youngtech-edu/records-api/pkg/errors"
	"github.com/youngtech-edu/records-api/pkg/mailer"
)

const bcryptCost = 12

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, admin *models.Admin) error
	MarkVerified(ctx context.Context, id string) error
}

// AuthConfig defines configuration for the identity gate.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	VerifyBaseURL     string
}

// AuthService is the identity gate: signup, email verification, and login.
// Every data-plane call runs only after it has granted a session.
type AuthService struct {
	repo      adminRepository
	mail      mailer.Mailer
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo adminRepository, mail mailer.Mailer, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if mail == nil {
		mail = mailer.NewConsole(logger)
	}
	return &AuthService{repo: repo, mail: mail, validator: validate, logger: logger, config: config}
}

// Signup creates an unverified admin account and sends the verification
// link. The account cannot sign in until the token is redeemed.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return storeError(err, "failed to check email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	token, err := generateVerificationToken()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create verification token")
	}

	admin := &models.Admin{
		Name:              req.Name,
		Email:             email,
		PasswordHash:      string(hash),
		Role:              models.AdminRole,
		EmailVerified:     false,
		VerificationToken: &token,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return storeError(err, "failed to create admin account")
	}

	verifyURL := fmt.Sprintf("%s?token=%s", s.config.VerifyBaseURL, token)
	msg := mailer.Message{
		ToName:   admin.Name,
		ToEmail:  admin.Email,
		Subject:  "Verify your email",
		TextBody: fmt.Sprintf("Welcome! Open the link below to verify your email:\n\n%s\n", verifyURL),
		HTMLBody: fmt.Sprintf("<h2>Welcome as a College Admin!</h2><p>Click the link below to verify your email:</p><a href=%q>%s</a>", verifyURL, verifyURL),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.Warn("failed to send verification mail",
			zap.String("email", admin.Email),
			zap.Error(err),
		)
	}
	return nil
}

// Verify redeems a one-time verification token. The token is cleared on
// success so it cannot be replayed.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "missing verification token")
	}
	admin, err := s.repo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "invalid or already used verification token")
		}
		return storeError(err, "failed to look up verification token")
	}
	if err := s.repo.MarkVerified(ctx, admin.ID); err != nil {
		return storeError(err, "failed to verify account")
	}
	return nil
}

// Login authenticates an admin and returns an issued access token.
// Unverified accounts are rejected before the password is checked.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	admin, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, storeError(err, "failed to fetch admin")
	}

	if !admin.EmailVerified {
		return nil, appErrors.Clone(appErrors.ErrEmailNotVerified, "please verify your email first")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	accessToken, issuedAt, err := s.generateAccessToken(admin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		Admin: models.AdminInfo{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
			Role:  admin.Role,
		},
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(admin *models.Admin) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func generateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
