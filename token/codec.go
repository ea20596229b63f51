package token

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redsource/redsource-server/internal/errors"
)

var segmentEncoding = base64.RawURLEncoding.Strict()

// TokenTypeAccess marks a JWT as an access token.
const TokenTypeAccess = "access"

// Claims is the claim set carried by an access token.
type Claims struct {
	Scope     string `json:"scope,omitempty"`      // Space separated authorities
	TokenType string `json:"token_type,omitempty"` // Always "access" for tokens minted by Issuer
	jwt.RegisteredClaims
}

// Authorities splits the scope claim.
func (c *Claims) Authorities() []string {
	return strings.Fields(c.Scope)
}

// Codec encodes claim sets into signed compact tokens and decodes them again.
// Parse and Verify are separate so callers can inspect the claims of a token
// whose signature is good before the time checks are applied.
type Codec struct {
	signer  Signer
	issuer  string
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

func WithCodecNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(signer Signer, issuer string, options ...CodecOption) *Codec {
	c := &Codec{
		signer:  signer,
		issuer:  issuer,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Encode signs the claims. It has no side effects.
func (c *Codec) Encode(claims *Claims) (string, error) {
	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrapf(err, "Codec.Encode")
	}
	return signed, nil
}

// Parse checks structure and signature only. Expired tokens parse successfully.
func (c *Codec) Parse(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.ErrMalformedToken
	}

	parser := jwt.NewParser(
		jwt.WithoutClaimsValidation(),
		jwt.WithStrictDecoding(),
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(rawToken, claims, c.signer.GetVerificationKey); err != nil {
		return nil, classifyParseError(rawToken, err)
	}
	return claims, nil
}

// Verify applies the time and issuer checks to claims returned by Parse.
func (c *Codec) Verify(claims *Claims) error {
	if claims.ExpiresAt == nil {
		return errors.Wrapf(errors.ErrInvalidToken, "missing exp claim")
	}
	if c.nowFunc().After(claims.ExpiresAt.Time) {
		return errors.ErrTokenExpired
	}
	if claims.Issuer != c.issuer {
		return errors.Wrapf(errors.ErrInvalidToken, "unexpected issuer %q", claims.Issuer)
	}
	return nil
}

// Decode is Parse followed by Verify.
func (c *Codec) Decode(rawToken string) (*Claims, error) {
	claims, err := c.Parse(rawToken)
	if err != nil {
		return nil, err
	}
	if err := c.Verify(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// classifyParseError maps parser failures onto the token taxonomy. A token
// whose header and payload are intact but whose signature segment does not
// decode has had its signature altered.
func classifyParseError(rawToken string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		if badSignatureSegment(rawToken) {
			return errors.Wrapf(errors.ErrSignatureInvalid, "%v", err)
		}
		return errors.Wrapf(errors.ErrMalformedToken, "%v", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.Wrapf(errors.ErrSignatureInvalid, "%v", err)
	default:
		return errors.Wrapf(errors.ErrMalformedToken, "%v", err)
	}
}

func badSignatureSegment(rawToken string) bool {
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts[:2] {
		if _, err := segmentEncoding.DecodeString(part); err != nil {
			return false
		}
	}
	_, err := segmentEncoding.DecodeString(parts[2])
	return err != nil
}
