package token

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"client-gate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppKey = "base64:test-app-key-for-client-data-cookies-000"

func samplePayload() domain.SignedPayload {
	return domain.SignedPayload{
		TenantID:   1,
		TenantName: "NaidSystems",
		UserID:     42,
		Nonce:      "0123456789abcdef0123456789abcdef",
	}
}

// frame builds a token whose signature is valid for arbitrary content.
func frame(c *CookieCodec, data string) string {
	raw := append([]byte(data), '|')
	raw = append(raw, c.digest([]byte(data))...)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec := NewCookieCodec(testAppKey)

	token, err := codec.Sign(samplePayload())
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), *got)
}

func TestCookieCodec_Sign_Deterministic(t *testing.T) {
	codec := NewCookieCodec(testAppKey)

	a, err := codec.Sign(samplePayload())
	require.NoError(t, err)
	b, err := codec.Sign(samplePayload())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCookieCodec_Sign_Layout(t *testing.T) {
	codec := NewCookieCodec(testAppKey)

	token, err := codec.Sign(samplePayload())
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	data, sig, ok := bytes.Cut(decoded, []byte("|"))
	require.True(t, ok)
	assert.JSONEq(t, `{"tenant_id":1,"tenant_name":"NaidSystems","user_id":42,"nonce":"0123456789abcdef0123456789abcdef"}`, string(data))
	assert.Len(t, sig, 64)
	_, err = hex.DecodeString(string(sig))
	assert.NoError(t, err)
	assert.Equal(t, bytes.ToLower(sig), sig)
}

func TestCookieCodec_Sign_MissingSecret(t *testing.T) {
	codec := NewCookieCodec("")

	_, err := codec.Sign(samplePayload())
	assert.ErrorIs(t, err, domain.ErrCookieSecretMissing)
}

func TestCookieCodec_Verify_TamperedPayload(t *testing.T) {
	codec := NewCookieCodec(testAppKey)

	token, err := codec.Sign(samplePayload())
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	sep := bytes.IndexByte(decoded, '|')
	require.Positive(t, sep)

	for i := 0; i < sep; i++ {
		tampered := bytes.Clone(decoded)
		tampered[i] ^= 0x01

		_, err := codec.Verify(base64.StdEncoding.EncodeToString(tampered))
		assert.ErrorIs(t, err, domain.ErrInvalidClientCookie, "byte %d", i)
	}
}

func TestCookieCodec_Verify_TamperedSignature(t *testing.T) {
	codec := NewCookieCodec(testAppKey)

	token, err := codec.Sign(samplePayload())
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	tampered := bytes.Clone(decoded)
	last := len(tampered) - 1
	if tampered[last] == '0' {
		tampered[last] = '1'
	} else {
		tampered[last] = '0'
	}

	_, err = codec.Verify(base64.StdEncoding.EncodeToString(tampered))
	assert.ErrorIs(t, err, domain.ErrInvalidClientCookie)
}

func TestCookieCodec_Verify_SingleCharacterEdits(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	codec := NewCookieCodec(testAppKey)

	// One of three consecutive name lengths yields "==" padding, where the
	// last body character carries four unused bits.
	var token string
	for _, name := range []string{"A", "Ac", "Acm"} {
		p := samplePayload()
		p.TenantName = name
		signed, err := codec.Sign(p)
		require.NoError(t, err)
		if strings.HasSuffix(signed, "==") {
			token = signed
			break
		}
	}
	require.NotEmpty(t, token)

	body := strings.TrimRight(token, "=")
	padding := token[len(body):]

	t.Run("last character before padding", func(t *testing.T) {
		last := len(body) - 1
		for _, r := range alphabet {
			if byte(r) == body[last] {
				continue
			}
			edited := body[:last] + string(r) + padding
			_, err := codec.Verify(edited)
			assert.ErrorIs(t, err, domain.ErrInvalidClientCookie, "%q -> %q", body[last], r)
		}
	})

	t.Run("every position", func(t *testing.T) {
		for i := 0; i < len(body); i++ {
			for _, r := range alphabet {
				if byte(r) == body[i] {
					continue
				}
				edited := body[:i] + string(r) + body[i+1:] + padding
				if _, err := codec.Verify(edited); !assert.ErrorIs(t, err, domain.ErrInvalidClientCookie, "position %d -> %q", i, r) {
					return
				}
			}
		}
	})
}

func TestCookieCodec_Verify_WrongSecret(t *testing.T) {
	token, err := NewCookieCodec(testAppKey).Sign(samplePayload())
	require.NoError(t, err)

	_, err = NewCookieCodec("another-app-key-entirely-different-0000").Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidClientCookie)

	_, err = NewCookieCodec("").Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidClientCookie)
}

func TestCookieCodec_Verify_Malformed(t *testing.T) {
	codec := NewCookieCodec(testAppKey)
	enc := base64.StdEncoding.EncodeToString

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not base64", token: "%%%not-base64%%%"},
		{name: "no separator", token: enc([]byte(`{"tenant_id":1}`))},
		{name: "two separators", token: enc([]byte("a|b|c"))},
		{name: "empty signature", token: enc([]byte(`{"tenant_id":1}|`))},
		{name: "signed non json", token: frame(codec, "not json")},
		{name: "signed json array", token: frame(codec, `[1,2,3]`)},
		{name: "missing nonce", token: frame(codec, `{"tenant_id":1,"tenant_name":"A","user_id":2}`)},
		{name: "missing tenant id", token: frame(codec, `{"tenant_name":"A","user_id":2,"nonce":"n"}`)},
		{name: "unknown field", token: frame(codec, `{"tenant_id":1,"tenant_name":"A","user_id":2,"nonce":"n","role":"admin"}`)},
		{name: "wrong type", token: frame(codec, `{"tenant_id":"1","tenant_name":"A","user_id":2,"nonce":"n"}`)},
		{name: "trailing data", token: frame(codec, `{"tenant_id":1,"tenant_name":"A","user_id":2,"nonce":"n"} {}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Verify(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidClientCookie)
			assert.Nil(t, got)
		})
	}
}

func TestCookieCodec_Verify_SignedWellFormedJSON(t *testing.T) {
	codec := NewCookieCodec(testAppKey)

	got, err := codec.Verify(frame(codec, `{"tenant_id":7,"tenant_name":"Acme","user_id":9,"nonce":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.TenantID)
	assert.Equal(t, "Acme", got.TenantName)
	assert.Equal(t, int64(9), got.UserID)
	assert.Equal(t, "abc", got.Nonce)
}

func TestCookieCodec_PipeInTenantName(t *testing.T) {
	codec := NewCookieCodec(testAppKey)
	payload := samplePayload()
	payload.TenantName = "Acme | Sons || Co"

	token, err := codec.Sign(payload)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(decoded, []byte("|")))

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, payload.TenantName, got.TenantName)
}

func TestCookieCodec_GenerateNonce(t *testing.T) {
	codec := NewCookieCodec(testAppKey)

	a, err := codec.GenerateNonce()
	require.NoError(t, err)
	b, err := codec.GenerateNonce()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	_, err = hex.DecodeString(a)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}
