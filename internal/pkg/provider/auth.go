package provider

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UploadAuthParams is the short-lived credential triple (plus public key) a
// client needs to authorize one direct-to-provider upload.
type UploadAuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

// NewUploadAuthParams issues a fresh token/expire/signature triple. The
// signature is an HMAC-SHA1 over token+expire keyed with the private key,
// which is the verification scheme the provider expects.
func NewUploadAuthParams(cfg *Config, ttl time.Duration) (*UploadAuthParams, error) {
	if cfg == nil || cfg.PrivateKey == "" {
		return nil, errors.New("private key is required for upload auth")
	}

	token := uuid.New().String()
	expire := time.Now().Add(ttl).Unix()

	return &UploadAuthParams{
		Token:     token,
		Expire:    expire,
		Signature: signUploadAuth(token, expire, cfg.PrivateKey),
		PublicKey: cfg.PublicKey,
	}, nil
}

func signUploadAuth(token string, expire int64, privateKey string) string {
	mac := hmac.New(sha1.New, []byte(privateKey))
	mac.Write([]byte(fmt.Sprintf("%s%d", token, expire)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyUploadAuth checks a signature against the token/expire pair.
func VerifyUploadAuth(params *UploadAuthParams, privateKey string) error {
	if params == nil {
		return errors.New("missing auth params")
	}
	if time.Now().Unix() > params.Expire {
		return errors.New("auth params expired")
	}
	expected := signUploadAuth(params.Token, params.Expire, privateKey)
	if !hmac.Equal([]byte(expected), []byte(params.Signature)) {
		return errors.New("invalid auth signature")
	}
	return nil
}
