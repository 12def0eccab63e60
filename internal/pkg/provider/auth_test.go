package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUploadAuthParams(t *testing.T) {
	cfg := &Config{PublicKey: "public_abc", PrivateKey: "private_xyz"}

	params, err := NewUploadAuthParams(cfg, 10*time.Minute)
	require.NoError(t, err)

	assert.NotEmpty(t, params.Token)
	assert.Equal(t, "public_abc", params.PublicKey)
	assert.Greater(t, params.Expire, time.Now().Unix())

	assert.NoError(t, VerifyUploadAuth(params, "private_xyz"))
	assert.Error(t, VerifyUploadAuth(params, "wrong_key"))
}

func TestNewUploadAuthParamsRequiresPrivateKey(t *testing.T) {
	_, err := NewUploadAuthParams(&Config{PublicKey: "public_abc"}, time.Minute)
	assert.Error(t, err)
}

func TestVerifyUploadAuthExpired(t *testing.T) {
	cfg := &Config{PublicKey: "public_abc", PrivateKey: "private_xyz"}

	params, err := NewUploadAuthParams(cfg, -time.Minute)
	require.NoError(t, err)

	assert.Error(t, VerifyUploadAuth(params, "private_xyz"))
}

func TestSignUploadAuthIsDeterministic(t *testing.T) {
	a := signUploadAuth("token", 1700000000, "key")
	b := signUploadAuth("token", 1700000000, "key")
	c := signUploadAuth("token", 1700000001, "key")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
