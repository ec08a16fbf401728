package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/config"
	"reviewhub/internal/mail"
)

var (
	ErrExpiredCode   = apierr.Validation("confirmation code has expired")
	ErrInvalidCode   = apierr.Validation("invalid confirmation code")
	ErrEmailMismatch = apierr.Validation("email does not match the confirmation code")
	ErrInvalidToken  = apierr.Unauthorized("invalid or expired token")
)

const (
	mailSubject     = "Confirmation code"
	mailDescription = "To receive a token, send your email and confirmation_code " +
		"to /v1/auth/token. Your confirmation_code: "
)

type AuthService interface {
	// SendConfirmationCode issues a code for email and dispatches it.
	// Mail delivery is best-effort; only code issuance can fail.
	SendConfirmationCode(ctx context.Context, email string) error
	IssueConfirmationCode(email string) (string, error)
	// RedeemCode verifies the confirmation code against email, creates the
	// user on first redemption and returns a bearer access token.
	RedeemCode(ctx context.Context, email, code string) (string, error)
	// ValidateAccessToken returns the user id bound to a bearer token.
	ValidateAccessToken(tokenString string) (string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	mailer     mail.Mailer
	log        *logrus.Logger
	secret     string
	codeExpiry time.Duration
	accessTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, mailer mail.Mailer, cfg *config.Config, log *logrus.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		mailer:     mailer,
		log:        log,
		secret:     cfg.SecretKey,
		codeExpiry: cfg.CodeExpiry,
		accessTTL:  cfg.AccessTokenTTL,
	}
}

// IssueConfirmationCode signs a short-lived token carrying only the email
// claim. Stateless: nothing is stored server-side.
func (s *authService) IssueConfirmationCode(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(s.codeExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *authService) SendConfirmationCode(ctx context.Context, email string) error {
	code, err := s.IssueConfirmationCode(email)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(email, mailSubject, mailDescription+code); err != nil {
		// Best-effort: a broken relay must not fail the request.
		s.log.WithError(err).WithField("email", email).Warn("confirmation code mail not delivered")
	}
	return nil
}

func (s *authService) RedeemCode(ctx context.Context, email, code string) (string, error) {
	token, err := jwt.Parse(code, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredCode
		}
		return "", ErrInvalidCode
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidCode
	}
	codeEmail, _ := claims["email"].(string)
	if codeEmail == "" {
		return "", ErrInvalidCode
	}
	if codeEmail != email {
		return "", ErrEmailMismatch
	}

	// First redemption creates a bare user; content actions stay blocked
	// until the profile gets a username.
	user, created, err := s.userRepo.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if created {
		s.log.WithField("email", email).Info("provisional user created on first token redemption")
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"type":    "access",
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *authService) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != "access" {
		return "", ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
