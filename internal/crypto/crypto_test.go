package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBox(t *testing.T, secret string) *Box {
	t.Helper()
	b, err := NewBoxFromSecret(secret)
	require.NoError(t, err)
	return b
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1, err := DeriveKey([]byte("master"))
	require.NoError(t, err)
	k2, err := DeriveKey([]byte("master"))
	require.NoError(t, err)
	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)

	// другой секрет: другой ключ
	k3, err := DeriveKey([]byte("master2"))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestDeriveKey_EmptySecret(t *testing.T) {
	_, err := DeriveKey(nil)
	assert.ErrorIs(t, err, ErrMissingMasterSecret)

	_, err = NewBoxFromSecret("")
	assert.ErrorIs(t, err, ErrMissingMasterSecret)
}

func TestNewBox_InvalidKeyLen(t *testing.T) {
	_, err := NewBox([]byte("short"))
	assert.Error(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	b := newTestBox(t, "master")

	inputs := [][]byte{
		[]byte("ghp_abc123"),
		[]byte("x"),
		bytes.Repeat([]byte{0xff}, 4096),
		{0x00, 0x01, 0x02},
	}
	for _, in := range inputs {
		token, err := b.Encrypt(in)
		require.NoError(t, err)

		out, err := b.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	b := newTestBox(t, "master")
	t1, err := b.Encrypt([]byte("same"))
	require.NoError(t, err)
	t2, err := b.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}

func TestEncrypt_EmptyPlaintext(t *testing.T) {
	b := newTestBox(t, "master")
	_, err := b.Encrypt(nil)
	assert.ErrorIs(t, err, ErrEmptyPlaintext)
	_, err = b.Encrypt([]byte{})
	assert.ErrorIs(t, err, ErrEmptyPlaintext)
}

// Порча любого символа токена должна давать ErrDecryption
func TestDecrypt_TamperedToken(t *testing.T) {
	b := newTestBox(t, "master")
	token, err := b.Encrypt([]byte("sk-live-123"))
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		tampered := []byte(token)
		tampered[i] ^= 0x01
		_, err := b.Decrypt(string(tampered))
		assert.ErrorIs(t, err, ErrDecryption, "position %d", i)
	}
}

// Порча любого байта сырого шифртекста должна давать ErrDecryption
func TestDecrypt_TamperedRawBytes(t *testing.T) {
	b := newTestBox(t, "master")
	token, err := b.Encrypt([]byte("sk-live-123"))
	require.NoError(t, err)
	raw, err := tokenEncoding.DecodeString(token)
	require.NoError(t, err)

	for i := range raw {
		cp := append([]byte(nil), raw...)
		cp[i] ^= 0x80
		_, err := b.Decrypt(tokenEncoding.EncodeToString(cp))
		assert.ErrorIs(t, err, ErrDecryption, "byte %d", i)
	}
}

func TestDecrypt_TruncatedAndGarbage(t *testing.T) {
	b := newTestBox(t, "master")
	token, err := b.Encrypt([]byte("value"))
	require.NoError(t, err)

	for _, bad := range []string{"", "!!!", token[:10], token[:len(token)-2]} {
		_, err := b.Decrypt(bad)
		assert.ErrorIs(t, err, ErrDecryption, "input %q", bad)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	a := newTestBox(t, "master-a")
	other := newTestBox(t, "master-b")

	token, err := a.Encrypt([]byte("value"))
	require.NoError(t, err)

	_, err = other.Decrypt(token)
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestWipe(t *testing.T) {
	buf := []byte{1, 2, 3}
	Wipe(buf)
	assert.Equal(t, []byte{0, 0, 0}, buf)
	Wipe(nil)
}
