// Package cryptox holds the crypto primitives used to protect the session
// vault at rest: argon2id key derivation from the device secret and
// AES-GCM sealing of persisted session records.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"

	"golang.org/x/crypto/argon2"
)

// DeriveStorageKey derives a 32-byte AES key from a device secret and salt
// using argon2id.
func DeriveStorageKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// EncryptRecord serializes the given value to JSON and encrypts it using
// AES-GCM. A new random 12-byte nonce is generated for each encryption;
// the ciphertext and nonce are returned separately.
func EncryptRecord(record any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptRecord decrypts ciphertext produced by EncryptRecord and
// unmarshals the resulting JSON into v. The key and nonce must match the
// ones used during encryption.
func DecryptRecord(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}
