package token

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"client-gate/internal/domain"
)

const (
	payloadSeparator = '|'
	nonceBytes       = 16
	digestHexLen     = sha256.Size * 2
)

// CookieCodec signs the client_data payload with HMAC-SHA256.
// The token layout is base64std(json + "|" + hex(hmac(json))).
// Implements domain.CookieCodec.
type CookieCodec struct {
	secret []byte
}

// NewCookieCodec creates a codec keyed with the given secret.
func NewCookieCodec(secret string) *CookieCodec {
	return &CookieCodec{secret: []byte(secret)}
}

// wirePayload mirrors domain.SignedPayload with pointer fields so absent keys
// can be told apart from zero values.
type wirePayload struct {
	TenantID   *int64  `json:"tenant_id"`
	TenantName *string `json:"tenant_name"`
	UserID     *int64  `json:"user_id"`
	Nonce      *string `json:"nonce"`
}

// Sign serializes the payload and appends its hex HMAC digest.
func (c *CookieCodec) Sign(payload domain.SignedPayload) (string, error) {
	if len(c.secret) == 0 {
		return "", domain.ErrCookieSecretMissing
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	// A raw '|' can only occur inside a JSON string; escaping it keeps the
	// separator unique without changing the decoded value.
	data = bytes.ReplaceAll(data, []byte{payloadSeparator}, []byte(`\u007c`))

	framed := make([]byte, 0, len(data)+1+digestHexLen)
	framed = append(framed, data...)
	framed = append(framed, payloadSeparator)
	framed = append(framed, c.digest(data)...)

	return base64.StdEncoding.EncodeToString(framed), nil
}

// Verify checks the token signature and returns the embedded payload.
// Every failure is reported as domain.ErrInvalidClientCookie.
func (c *CookieCodec) Verify(token string) (*domain.SignedPayload, error) {
	if len(c.secret) == 0 || token == "" {
		return nil, domain.ErrInvalidClientCookie
	}

	decoded, err := base64.StdEncoding.Strict().DecodeString(token)
	if err != nil {
		return nil, domain.ErrInvalidClientCookie
	}

	if bytes.Count(decoded, []byte{payloadSeparator}) != 1 {
		return nil, domain.ErrInvalidClientCookie
	}
	data, signature, _ := bytes.Cut(decoded, []byte{payloadSeparator})

	if !hmac.Equal(c.digest(data), signature) {
		return nil, domain.ErrInvalidClientCookie
	}

	payload, err := decodePayload(data)
	if err != nil {
		return nil, domain.ErrInvalidClientCookie
	}
	return payload, nil
}

// GenerateNonce returns 16 random bytes as 32 lowercase hex characters.
func (c *CookieCodec) GenerateNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	return hex.EncodeToString(buf), nil
}

func (c *CookieCodec) digest(data []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(data)
	out := make([]byte, digestHexLen)
	hex.Encode(out, mac.Sum(nil))
	return out
}

func decodePayload(data []byte) (*domain.SignedPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w wirePayload
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after payload")
	}
	if w.TenantID == nil || w.TenantName == nil || w.UserID == nil || w.Nonce == nil {
		return nil, fmt.Errorf("payload field missing")
	}

	return &domain.SignedPayload{
		TenantID:   *w.TenantID,
		TenantName: *w.TenantName,
		UserID:     *w.UserID,
		Nonce:      *w.Nonce,
	}, nil
}
