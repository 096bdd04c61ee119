package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/microblog/go-server/internal/util"
)

// DefaultTokenTTL is the token lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, malformed payload, or expiry in the past.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload embedded in an issued token. The account id rides
// in the registered Subject claim.
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// UserID decodes the Subject claim back into an account id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Codec signs and verifies identity tokens. The secret is injected at
// construction; business code never reads it from the environment. There
// is no revocation list — an issued token stays valid until expiry.
type Codec struct {
	secret []byte
	ttl    time.Duration
	clock  util.Clock
}

// NewCodec builds a codec from a signing secret. An empty secret is a
// configuration error; callers treat it as fatal at startup.
func NewCodec(secret string, ttl time.Duration, clock util.Clock) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if clock == nil {
		clock = util.NewRealClock()
	}
	return &Codec{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

// Issue signs an HS256 token for the account, expiring after the codec TTL.
func (c *Codec) Issue(userID int64, username string, isAdmin bool) (string, error) {
	now := c.clock.NowUtc()
	claims := &Claims{
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a raw token string. Only HS256 is accepted;
// a token signed with another algorithm or another secret fails, as does
// one whose expiry has passed.
func (c *Codec) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{},
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.NowUtc),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
