// Package session implements the stateless session layer of the jokebox.
//
// A session is nothing but a signed token held by the client in a cookie;
// the server keeps no session table. Forging a session therefore requires
// knowledge of the signing secret, and losing the cookie simply means
// logging in again.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid marks a token whose signature does not verify or whose
	// shape is unusable. Callers treat it the same as no session.
	ErrInvalid = errors.New("session: invalid token")
	// ErrExpired marks a well-signed token past its expiry. Callers treat
	// it the same as no session.
	ErrExpired = errors.New("session: expired token")
)

type (
	// Codec turns a user id into a signed, self-expiring token and back.
	// The secret is fixed at construction and never rotated within a
	// process lifetime.
	Codec struct {
		secret []byte
		maxAge time.Duration
	}

	claims struct {
		jwt.RegisteredClaims
		UserID string `json:"uid"`
	}
)

func NewCodec(secret []byte, maxAge time.Duration) *Codec {
	return &Codec{secret: secret, maxAge: maxAge}
}

// MaxAge is the lifetime encoded into tokens minted by this codec.
func (c *Codec) MaxAge() time.Duration { return c.maxAge }

// Encode mints a signed token carrying userID, expiring maxAge from now.
func (c *Codec) Encode(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.maxAge)),
		},
		UserID: userID,
	})
	return token.SignedString(c.secret)
}

// Decode verifies the token signature and expiry and returns the embedded
// user id. A bad signature, a wrong algorithm or a mangled token fail with
// ErrInvalid; a valid but stale token fails with ErrExpired. Nothing in a
// token is trusted before the signature checks out.
func (c *Codec) Decode(token string) (string, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", ErrExpired
	} else if err != nil || !parsed.Valid {
		return "", ErrInvalid
	}
	if cl.UserID == "" {
		return "", ErrInvalid
	}
	return cl.UserID, nil
}
