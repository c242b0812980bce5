package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

var ErrCodecNoSecret = errors.New("signing secret not configured")

// DefaultTokenLifetime es la vida de un token de aserción firmado.
const DefaultTokenLifetime = 24 * time.Hour

// tokenPayload serializa con las claves en orden alfabético; la firma se
// calcula sobre exactamente esos bytes, así que el orden de los campos
// del struct no puede cambiar.
type tokenPayload struct {
	DeviceHash string `json:"deviceHash"`
	ExpiresAt  int64  `json:"expiresAt"`
	IssuedAt   int64  `json:"issuedAt"`
}

type tokenEnvelope struct {
	Payload   tokenPayload `json:"payload"`
	Signature string       `json:"signature"`
}

// TokenCodec emite y valida tokens de aserción portables: payload JSON
// canónico, firma HMAC-SHA256 en hex y sobre exterior en base64. No guarda
// estado; la validez de un token depende solo de sus bytes y del secreto.
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenCodec crea un codec con el secreto compartido y la vida útil dada.
func NewTokenCodec(secret string, lifetime time.Duration) *TokenCodec {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenCodec{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Sign construye el token firmado para un deviceHash y devuelve además el
// expiresAt (unix segundos) del payload.
func (c *TokenCodec) Sign(deviceHash string) (string, int64, error) {
	if len(c.secret) == 0 {
		return "", 0, ErrCodecNoSecret
	}

	now := c.now().UTC().Unix()
	payload := tokenPayload{
		DeviceHash: deviceHash,
		ExpiresAt:  now + int64(c.lifetime.Seconds()),
		IssuedAt:   now,
	}

	signature, err := c.signPayload(payload)
	if err != nil {
		return "", 0, err
	}
	envelope, err := json.Marshal(tokenEnvelope{Payload: payload, Signature: signature})
	if err != nil {
		return "", 0, err
	}
	return base64.StdEncoding.EncodeToString(envelope), payload.ExpiresAt, nil
}

// Verify decodifica y valida un token. Cualquier fallo de decodificación,
// estructura, firma o expiración se reduce a false; el llamador nunca
// distingue un token manipulado de basura.
func (c *TokenCodec) Verify(token string) bool {
	if len(c.secret) == 0 {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	var envelope tokenEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return false
	}

	expected, err := c.signPayload(envelope.Payload)
	if err != nil {
		return false
	}
	// hmac.Equal: la comparación debe ser en tiempo constante.
	if !hmac.Equal([]byte(envelope.Signature), []byte(expected)) {
		return false
	}

	return c.now().UTC().Unix() <= envelope.Payload.ExpiresAt
}

func (c *TokenCodec) signPayload(payload tokenPayload) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
