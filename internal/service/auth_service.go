package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"adetta/internal/config"
	"adetta/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPIN is returned by Login for a wrong PIN.
var ErrInvalidPIN = errors.New("invalid pin")

// SessionSubject is the subject of every session token. There are no
// per-user accounts; a valid token only says "this session passed the gate".
const SessionSubject = "adetta-session"

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	GateEnabled() bool
}

type authService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) GateEnabled() bool { return s.cfg.GateEnabled() }

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.cfg.GateEnabled() && !s.checkPIN(req.PIN) {
		return nil, ErrInvalidPIN
	}

	ttl := time.Duration(s.cfg.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	token, err := IssueSessionToken(s.cfg.SessionSecret, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(ttl.Seconds()),
	}, nil
}

// checkPIN prefers the bcrypt hash; the plain PIN is compared in constant time.
func (s *authService) checkPIN(pin string) bool {
	if s.cfg.PINHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.PINHash), []byte(pin)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.PIN), []byte(pin)) == 1
}

// IssueSessionToken signs an HS256 session token valid for ttl.
func IssueSessionToken(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   SessionSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
