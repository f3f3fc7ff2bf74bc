package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

const issuer = "eraflix-booking"

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the staff identity the booking desk needs.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

// IsStaff reports whether the holder may use the staff surface.
func (c *Claims) IsStaff() bool {
	return c.Role == RoleStaff || c.Role == RoleAdmin
}

// Service signs and verifies HS256 tokens with one shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	parser *jwtlib.Parser
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwtlib.NewParser(
			jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
			jwtlib.WithIssuer(issuer),
			jwtlib.WithExpirationRequired(),
		),
	}
}

func (s *Service) GenerateToken(userID int64, role string) (string, error) {
	now := time.Now()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken returns the claims of a well-formed, unexpired token
// signed by this service. Every failure wraps ErrInvalidToken.
func (s *Service) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(raw, claims, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
