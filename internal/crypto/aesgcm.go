// Package crypto отвечает за защиту номера карты: аутентифицированное
// шифрование для хранения и маскирование для отображения.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// NonceSize — длина nonce в байтах (96 бит, рекомендация для GCM)
const NonceSize = 12

// Cipher шифрует и дешифрует номер карты одним симметричным ключом,
// заданным на все время жизни процесса. На каждый вызов Encrypt
// генерируется новый случайный nonce: повторное использование nonce
// под одним ключом недопустимо.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher создает Cipher по симметричному ключу (AES-128/192/256)
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt шифрует исходный текст и возвращает пару base64(шифртекст), base64(nonce)
func (c *Cipher) Encrypt(plaintext string) (string, string, error) {
	if plaintext == "" {
		return "", "", fmt.Errorf("input data is empty")
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := c.aead.Seal(nil, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(ciphertext),
		base64.StdEncoding.EncodeToString(nonce),
		nil
}

// Decrypt восстанавливает исходный текст по base64-шифртексту и nonce.
// При поврежденном шифртексте, чужом nonce или неверном ключе возвращает
// ошибку — частичной расшифровки не бывает.
func (c *Cipher) Decrypt(ciphertextB64, nonceB64 string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode nonce: %w", err)
	}

	if len(nonce) != NonceSize {
		return "", fmt.Errorf("invalid nonce length: %d", len(nonce))
	}

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}
