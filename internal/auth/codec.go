package auth

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// TypeAuthentication is the only token type issued on login.
const TypeAuthentication = "authentication"

var (
	ErrTokenIssuance = errors.New("failed to issue token")
	ErrTokenInvalid  = errors.New("invalid token")
)

var encryptionKeyInfo = []byte("todo-api token payload v1")

// Payload is the plaintext sealed inside every token.
type Payload struct {
	UserID uuid.UUID `json:"id"`
	Type   string    `json:"type"`
}

// Claims is the signed outer envelope. Token carries the sealed payload.
type Claims struct {
	jwt.RegisteredClaims
	Token string `json:"token"`
}

// TokenCodec issues and verifies bearer tokens: the payload is sealed with
// XChaCha20-Poly1305 and the ciphertext is signed as an HS256 JWT.
type TokenCodec struct {
	signingKey []byte
	aead       cipher.AEAD
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenCodec builds a codec from the given secrets. A zero ttl issues
// tokens without expiry.
func NewTokenCodec(secrets SecretSource, ttl time.Duration) (*TokenCodec, error) {
	signingKey, err := secrets.SigningKey()
	if err != nil {
		return nil, fmt.Errorf("signing key: %w", err)
	}
	encryptionSecret, err := secrets.EncryptionKey()
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}
	if bytes.Equal(signingKey, encryptionSecret) {
		return nil, errors.New("signing and encryption secrets must differ")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, encryptionSecret, nil, encryptionKeyInfo), key); err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}

	return &TokenCodec{
		signingKey: signingKey,
		aead:       aead,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (c *TokenCodec) Issue(userID uuid.UUID, tokenType string) (string, error) {
	if userID == uuid.Nil || tokenType == "" {
		return "", ErrTokenIssuance
	}

	plaintext, err := json.Marshal(Payload{UserID: userID, Type: tokenType})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}

	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)

	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		Token: base64.RawURLEncoding.EncodeToString(sealed),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}
	return signed, nil
}

// Verify checks the signature, then decrypts and parses the payload. Every
// failure is reported as ErrTokenInvalid.
func (c *TokenCodec) Verify(token string) (Payload, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, c.KeyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return Payload{}, ErrTokenInvalid
	}
	return c.Open(claims)
}

// Open decrypts the payload of claims whose signature was already checked.
func (c *TokenCodec) Open(claims *Claims) (Payload, error) {
	if claims == nil || claims.Token == "" {
		return Payload{}, ErrTokenInvalid
	}
	sealed, err := base64.RawURLEncoding.Strict().DecodeString(claims.Token)
	if err != nil || len(sealed) < c.aead.NonceSize()+c.aead.Overhead() {
		return Payload{}, ErrTokenInvalid
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Payload{}, ErrTokenInvalid
	}

	var p Payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return Payload{}, ErrTokenInvalid
	}
	if p.UserID == uuid.Nil || p.Type == "" {
		return Payload{}, ErrTokenInvalid
	}
	return p, nil
}

// KeyFunc resolves the HMAC key for jwt parsing. It rejects any non-HMAC
// signing method.
func (c *TokenCodec) KeyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
	}
	return c.signingKey, nil
}
