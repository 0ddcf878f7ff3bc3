package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// keyLen: длина ключа для AES‑256 (в байтах).
	keyLen = 32
	// kdfIterations: число итераций PBKDF2.
	kdfIterations = 100_000
	// tokenVersion: первый байт каждого шифртекста, формат: version|nonce|sealed.
	tokenVersion byte = 0x01
)

// kdfSalt: фиксированная соль, ключ зависит только от мастер-секрета.
var kdfSalt = []byte("keyguardian")

var tokenEncoding = base64.RawURLEncoding

var (
	// ErrMissingMasterSecret: мастер-секрет не задан (ошибка конфигурации).
	ErrMissingMasterSecret = errors.New("master secret is not configured")
	// ErrEmptyPlaintext: попытка зашифровать пустое значение.
	ErrEmptyPlaintext = errors.New("plaintext must not be empty")
	// ErrDecryption: шифртекст повреждён, обрезан или зашифрован другим ключом.
	ErrDecryption = errors.New("decryption failed")
)

// DeriveKey выводит 32-байтовый симметричный ключ из мастер-секрета (PBKDF2-SHA256).
func DeriveKey(masterSecret []byte) ([]byte, error) {
	if len(masterSecret) == 0 {
		return nil, ErrMissingMasterSecret
	}
	return pbkdf2.Key(masterSecret, kdfSalt, kdfIterations, keyLen, sha256.New), nil
}

// Box: аутентифицированное шифрование AES‑GCM поверх одного ключа.
// После создания не изменяется и безопасен для конкурентного использования.
type Box struct {
	aead cipher.AEAD
}

// NewBox создаёт Box из готового 32-байтового ключа.
func NewBox(key []byte) (*Box, error) {
	if len(key) != keyLen {
		return nil, fmt.Errorf("invalid key length: want %d, got %d", keyLen, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return &Box{aead: gcm}, nil
}

// NewBoxFromSecret выводит ключ из мастер-секрета и создаёт Box.
func NewBoxFromSecret(masterSecret string) (*Box, error) {
	key, err := DeriveKey([]byte(masterSecret))
	if err != nil {
		return nil, err
	}
	defer wipe(key)
	return NewBox(key)
}

// Encrypt шифрует plain и возвращает самодостаточный токен (nonce внутри).
func (b *Box) Encrypt(plain []byte) (string, error) {
	if len(plain) == 0 {
		return "", ErrEmptyPlaintext
	}
	ns := b.aead.NonceSize()
	buf := make([]byte, 1+ns, 1+ns+len(plain)+b.aead.Overhead())
	buf[0] = tokenVersion
	nonce := buf[1 : 1+ns]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := b.aead.Seal(buf, nonce, plain, []byte{tokenVersion})
	return tokenEncoding.EncodeToString(out), nil
}

// Decrypt расшифровывает токен, полученный из Encrypt.
// Любая порча данных даёт ErrDecryption, а не неверный plaintext.
func (b *Box) Decrypt(token string) ([]byte, error) {
	raw, err := tokenEncoding.Strict().DecodeString(token)
	if err != nil {
		return nil, ErrDecryption
	}
	ns := b.aead.NonceSize()
	if len(raw) < 1+ns+b.aead.Overhead() || raw[0] != tokenVersion {
		return nil, ErrDecryption
	}
	plain, err := b.aead.Open(nil, raw[1:1+ns], raw[1+ns:], raw[:1])
	if err != nil {
		return nil, ErrDecryption
	}
	return plain, nil
}

// Wipe затирает буфер с чувствительными данными.
func Wipe(b []byte) { wipe(b) }

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
