package token

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/internal/config"
	"go.uber.org/fx"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, expiry, wrong algorithm. Callers never learn
// which check failed.
var ErrInvalidToken = errors.New("invalid_token")

// Claims identifies the guest an RSVP link was minted for.
type Claims struct {
	GuestID   snowflake.ID
	EventID   snowflake.ID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type wireClaims struct {
	GuestID string `json:"gid"`
	EventID string `json:"eid"`
	jwt.RegisteredClaims
}

// Codec mints and verifies the signed tokens embedded in guest RSVP
// links.
type Codec struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

type Params struct {
	fx.In

	Config config.Config
	Clock  clock.Clock
}

func New(p Params) (*Codec, error) {
	return NewCodec([]byte(p.Config.RSVPTokenSecret), p.Config.RSVPTokenTTL, p.Clock)
}

func NewCodec(secret []byte, ttl time.Duration, clk clock.Clock) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("rsvp token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("rsvp token ttl must be positive")
	}
	return &Codec{secret: secret, ttl: ttl, clock: clk}, nil
}

func (c *Codec) Issue(guestID, eventID snowflake.ID) (string, error) {
	if guestID == 0 || eventID == 0 {
		return "", errors.New("guest and event ids are required")
	}

	now := c.clock.Now().UTC()
	claims := wireClaims{
		GuestID: guestID.String(),
		EventID: eventID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) Verify(raw string) (Claims, error) {
	var claims wireClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	guestID, err := snowflake.ParseString(claims.GuestID)
	if err != nil || guestID == 0 {
		return Claims{}, ErrInvalidToken
	}
	eventID, err := snowflake.ParseString(claims.EventID)
	if err != nil || eventID == 0 {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{GuestID: guestID, EventID: eventID}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
