package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"library-circulation/internal/domain/user"
)

const TokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Actor is whoever a request acts as: a staff user or a patron.
type Actor struct {
	ID   uint64    `json:"id"`
	Role user.Role `json:"role"`
}

type Claims struct {
	Role user.Role `json:"role"`
	jwt.RegisteredClaims
}

func SignToken(secret []byte, a Actor, now time.Time) (string, time.Time, error) {
	exp := now.Add(TokenTTL)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(a.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// ParseToken accepts HS256 only.
func ParseToken(secret []byte, raw string) (*Actor, error) {
	var c Claims
	tok, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 || c.Role == "" {
		return nil, ErrInvalidToken
	}
	return &Actor{ID: id, Role: c.Role}, nil
}
