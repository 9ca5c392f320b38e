package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Anthanoess/task-app/internal/model"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

// Tokens issues and verifies HS256 tokens. A zero TTL issues tokens without expiry.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Generate(userID uuid.UUID, role model.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    string(role),
		"iat":     t.now().Unix(),
	}
	if t.ttl > 0 {
		claims["exp"] = t.now().Add(t.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *Tokens) Parse(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidClaims
	}
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return Identity{}, ErrInvalidClaims
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Identity{}, ErrInvalidClaims
	}

	role, _ := claims["role"].(string)
	switch model.Role(role) {
	case model.RoleManager, model.RoleEmployee:
	default:
		return Identity{}, ErrInvalidClaims
	}

	return Identity{UserID: userID, Role: model.Role(role)}, nil
}
