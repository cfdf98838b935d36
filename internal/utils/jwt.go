package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are sent in the Authorization
// header when calling protected endpoints.  There is no server-side
// revocation store: logout is the client discarding its token, and a
// token stays valid until its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ErrMalformedSubject is returned when a token parses and verifies but its
// subject claim is not a numeric user id. Treated like any other invalid
// token by callers.
var ErrMalformedSubject = errors.New("token subject is not a user id")

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID and a TTL in minutes, and returns the signed
// token together with its expiration time.  Claims are deliberately
// minimal: subject (sub), expiration (exp) and issued at (iat).  The
// user's role is NOT embedded — roles are re-read from the database on
// every request so a token can never carry a stale role.
func NewAccessToken(secret string, userID uint64, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a token and
// returns the user ID from its subject claim.  The signature is checked
// before any time-based claim, and tokens signed with anything other than
// HMAC are rejected outright.  On failure the returned error wraps one of
// jwt.ErrTokenMalformed, jwt.ErrTokenSignatureInvalid or
// jwt.ErrTokenExpired; callers use the distinction for logging only and
// must present all three to clients as the same unauthenticated outcome.
func ParseAccessToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !tok.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrMalformedSubject
	}
	// Numeric JSON claims decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub < 0 {
		return 0, ErrMalformedSubject
	}
	return uint64(sub), nil
}
