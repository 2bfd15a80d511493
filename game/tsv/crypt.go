package tsv

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadPassphrase  = errors.New("decryption failed: wrong passphrase or corrupted file")
	ErrNotEncrypted   = errors.New("input is not an encrypted dataset")
	ErrEmptyPlaintext = errors.New("decrypted text contains no tab characters")
)

// IsEncrypted reports whether text looks like an encrypted dataset rather
// than plain TSV: no tab character anywhere in the payload.
func IsEncrypted(text string) bool {
	return !strings.Contains(text, "\t")
}

// Decrypt decodes an OpenSSL-style AES-256-CBC payload ("Salted__" + 8-byte
// salt, base64-encoded, MD5 key derivation), the format CryptoJS emits by
// default, and verifies the plaintext is TSV by requiring at least one tab
// character.
func Decrypt(cipherText, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cipherText))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotEncrypted, err)
	}
	if len(raw) < 16 || string(raw[:8]) != "Salted__" {
		return "", ErrNotEncrypted
	}
	salt := raw[8:16]
	payload := raw[16:]
	if len(payload) == 0 || len(payload)%aes.BlockSize != 0 {
		return "", ErrBadPassphrase
	}

	key, iv := deriveKeyAndIV([]byte(passphrase), salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, payload)

	plain, err = stripPKCS7(plain)
	if err != nil {
		return "", ErrBadPassphrase
	}
	if !strings.Contains(string(plain), "\t") {
		return "", ErrEmptyPlaintext
	}
	return string(plain), nil
}

// Encrypt produces an OpenSSL-style AES-256-CBC payload that Decrypt and
// CryptoJS-based clients can open. Used by dataset authors who want to ship
// a locked question file.
func Encrypt(plainText, passphrase string) (string, error) {
	salt := make([]byte, 8)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key, iv := deriveKeyAndIV([]byte(passphrase), salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	plain := []byte(plainText)
	pad := aes.BlockSize - len(plain)%aes.BlockSize
	plain = append(plain, bytes.Repeat([]byte{byte(pad)}, pad)...)

	out := make([]byte, 16+len(plain))
	copy(out, "Salted__")
	copy(out[8:16], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[16:], plain)

	return base64.StdEncoding.EncodeToString(out), nil
}

// deriveKeyAndIV implements OpenSSL's EVP_BytesToKey with MD5 and one
// iteration: 32-byte key, 16-byte IV.
func deriveKeyAndIV(passphrase, salt []byte) (key, iv []byte) {
	var derived []byte
	var prev []byte
	for len(derived) < 48 {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:32], derived[32:48]
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty plaintext")
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, errors.New("invalid padding")
	}
	if !bytes.Equal(data[len(data)-pad:], bytes.Repeat([]byte{byte(pad)}, pad)) {
		return nil, errors.New("invalid padding")
	}
	return data[:len(data)-pad], nil
}
