package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/cryptox"
)

// SealedFormat marks a passphrase-protected document.
const SealedFormat = "mediavault-sealed/v1"

// ErrPassphrase is returned by Open when the passphrase does not decrypt the
// envelope.
var ErrPassphrase = errors.New("wrong passphrase or corrupted backup")

type envelope struct {
	Format     string `json:"format"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// IsSealed reports whether data looks like a sealed envelope.
func IsSealed(data []byte) bool {
	if !bytes.Contains(data, []byte(SealedFormat)) {
		return false
	}
	var env envelope
	return json.Unmarshal(data, &env) == nil && env.Format == SealedFormat
}

// Seal encrypts an encoded document with a key derived from passphrase.
func Seal(plain, passphrase []byte) ([]byte, error) {
	salt, err := cryptox.RandomBytes(cryptox.SaltSize)
	if err != nil {
		return nil, err
	}
	key := cryptox.DeriveKey(passphrase, salt)
	defer cryptox.Wipe(key)

	ct, nonce, err := cryptox.Seal(plain, key)
	if err != nil {
		return nil, fmt.Errorf("seal backup: %w", err)
	}
	b, err := json.MarshalIndent(envelope{Format: SealedFormat, Salt: salt, Nonce: nonce, Ciphertext: ct}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return append(b, '\n'), nil
}

// Open decrypts a sealed envelope and returns the plain document bytes.
func Open(data, passphrase []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidBackupFormat, err)
	}
	if env.Format != SealedFormat {
		return nil, fmt.Errorf("%w: unknown envelope format %q", common.ErrInvalidBackupFormat, env.Format)
	}
	if len(env.Salt) != cryptox.SaltSize || len(env.Nonce) == 0 || len(env.Ciphertext) == 0 {
		return nil, fmt.Errorf("%w: incomplete envelope", common.ErrInvalidBackupFormat)
	}

	key := cryptox.DeriveKey(passphrase, env.Salt)
	defer cryptox.Wipe(key)

	plain, err := cryptox.Open(env.Ciphertext, env.Nonce, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPassphrase, err)
	}
	return plain, nil
}

// DecodeAny decodes a plain document, or a sealed one when passphrase is
// provided. A sealed document without a passphrase fails with
// ErrPassphrase.
func DecodeAny(data []byte, passphrase func() ([]byte, error)) (Document, error) {
	if !IsSealed(data) {
		return Decode(data)
	}
	if passphrase == nil {
		return Document{}, fmt.Errorf("%w: passphrase required", ErrPassphrase)
	}
	pass, err := passphrase()
	if err != nil {
		return Document{}, err
	}
	defer cryptox.Wipe(pass)

	plain, err := Open(data, pass)
	if err != nil {
		return Document{}, err
	}
	return Decode(plain)
}
