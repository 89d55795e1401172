// JWT token issuing and validation.
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store
// session data. All the information needed (user ID, expiry, token type)
// is inside the signed token. The signature ensures nobody can tamper
// with it without the secret key.
//
// TWO TOKEN TYPES:
// - access:  short-lived (1h default), presented on every API call
// - refresh: long-lived (30d default), accepted ONLY by the refresh
//   endpoint to mint a new access token
//
// The "type" claim makes them mutually exclusive: a refresh token is never
// accepted where an access token is expected, and vice versa. Without this
// a stolen 30-day refresh token would double as a 30-day access token.
//
// KNOWN LIMITATION: refresh tokens are not rotated and there is no
// revocation list. Logout and password changes do not invalidate tokens
// already in the wild; they simply age out.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const issuer = "studyplanner"

// ErrInvalidToken is returned for any verification failure: bad signature,
// expiry, wrong issuer, wrong algorithm, or type mismatch. Callers get one
// undifferentiated error — the response should not tell an attacker which
// check failed.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenService issues and verifies the signed tokens.
// It holds the HMAC secret; the same secret signs and verifies.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService.
// The secret should be at least 32 bytes of random data in production;
// anything under 16 characters is rejected outright.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (sub, iat, exp,
// iss, jti) and adds the token type discriminator.
//
// The user ID travels in "sub" as a decimal string — the standard claim for
// identifying who the token belongs to.
type claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

// IssueAccess creates a signed access token for the given user ID.
func (s *TokenService) IssueAccess(userID int64) (string, error) {
	return s.issue(userID, TokenTypeAccess, s.accessTTL)
}

// IssueRefresh creates a signed refresh token for the given user ID.
func (s *TokenService) IssueRefresh(userID int64) (string, error) {
	return s.issue(userID, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
			// jti: unique token ID. Not checked anywhere today, but it
			// makes every issued token distinct and is the hook a future
			// revocation list would key on.
			ID: xid.New().String(),
		},
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing %s token: %w", tokenType, err)
	}

	return signed, nil
}

// Verify parses and verifies a token string, enforcing the expected type.
// Returns the user ID from the "sub" claim.
//
// VALIDATION CHECKS:
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired
//   - Issuer matches (prevents tokens minted by other apps with the same lib)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//   - "type" claim equals expectedType
func (s *TokenService) Verify(tokenStr, expectedType string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	if c.TokenType != expectedType {
		return 0, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return userID, nil
}
