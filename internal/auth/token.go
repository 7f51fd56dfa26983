package auth // package auth issues and verifies the signed tokens used by the API

import (
	"errors" // sentinel error for any verification failure
	"time"   // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Token type discriminators carried in the "typ" claim. A refresh token is
// never accepted where an access token is required and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed token, expiry, or wrong token type. Callers deliberately cannot
// tell which check failed.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and verifies HS256 JWTs carrying a player identity.
// Tokens are stateless: nothing is persisted server-side and expiry is the
// only invalidation mechanism. The signing secret is read once at startup;
// rotating it invalidates all outstanding tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer builds an issuer from the signing secret and the configured
// lifetimes for access and refresh tokens.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess mints a short-lived access token for the player.
func (t *TokenIssuer) IssueAccess(playerID uint64) (string, error) {
	return t.issue(playerID, TokenTypeAccess, t.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for the player.
func (t *TokenIssuer) IssueRefresh(playerID uint64) (string, error) {
	return t.issue(playerID, TokenTypeRefresh, t.refreshTTL)
}

// issue signs an HS256 JWT with the subject, token type, issued-at and
// expiry claims. The claim layout is {sub, typ, iat, exp}.
func (t *TokenIssuer) issue(playerID uint64, typ string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": playerID,
		"typ": typ,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify parses raw, checks the signature and expiry, and checks that the
// token's type matches wantTyp. On success it returns the player id from the
// subject claim. Every failure collapses into ErrInvalidToken so callers
// cannot distinguish a forged token from an expired or mistyped one.
func (t *TokenIssuer) Verify(raw, wantTyp string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(tk *jwt.Token) (interface{}, error) {
		// Reject any signing method other than HMAC; an attacker must not be
		// able to downgrade to "none" or switch to an asymmetric scheme.
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantTyp {
		return 0, ErrInvalidToken
	}
	// JSON numbers decode as float64; the subject is always numeric here.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrInvalidToken
	}
	return uint64(sub), nil
}
