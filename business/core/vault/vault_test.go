package vault_test

import (
	"strings"
	"testing"

	"github.com/scrollsoul/qfs/business/core/vault"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	v, err := vault.New("treasury-master-key")
	require.NoError(t, err)

	plaintext := `{"account":"citizen_001","memo":"universal basic income"}`
	ciphertext := v.Encrypt(plaintext)
	require.NotEqual(t, plaintext, ciphertext)

	decrypted, ok := v.Decrypt(ciphertext)
	require.True(t, ok)
	require.Equal(t, plaintext, decrypted)
}

func TestRandomKey(t *testing.T) {
	v1, err := vault.New("")
	require.NoError(t, err)

	v2, err := vault.New("")
	require.NoError(t, err)

	require.NotEqual(t, v1.MasterKeyHash(), v2.MasterKeyHash())

	// A vault with a different key can't verify the envelope.
	ciphertext := v1.Encrypt("secret")
	_, ok := v2.Decrypt(ciphertext)
	require.False(t, ok)
}

func TestTamperedCiphertext(t *testing.T) {
	v, err := vault.New("treasury-master-key")
	require.NoError(t, err)

	ciphertext := v.Encrypt("secret")

	// Flip one character of the envelope.
	flipped := []byte(ciphertext)
	if flipped[0] == 'A' {
		flipped[0] = 'B'
	} else {
		flipped[0] = 'A'
	}

	_, ok := v.Decrypt(string(flipped))
	require.False(t, ok)

	// Garbage that isn't even base64 is rejected, not a panic.
	_, ok = v.Decrypt("!!not base64!!")
	require.False(t, ok)

	// An envelope too short to carry a MAC is rejected.
	_, ok = v.Decrypt("c2hvcnQ=")
	require.False(t, ok)
}

func TestRotateKeys(t *testing.T) {
	v, err := vault.New("treasury-master-key")
	require.NoError(t, err)

	oldHash := v.MasterKeyHash()
	ciphertext := v.Encrypt("secret")

	newHash, err := v.RotateKeys("")
	require.NoError(t, err)
	require.NotEqual(t, oldHash, newHash)
	require.Equal(t, newHash, v.MasterKeyHash())

	// Old ciphertexts no longer verify under the rotated keys.
	_, ok := v.Decrypt(ciphertext)
	require.False(t, ok)

	// New ciphertexts round-trip as usual.
	decrypted, ok := v.Decrypt(v.Encrypt("secret"))
	require.True(t, ok)
	require.Equal(t, "secret", decrypted)
}

func TestMasterKeyHash(t *testing.T) {
	v, err := vault.New("treasury-master-key")
	require.NoError(t, err)

	hash := v.MasterKeyHash()
	require.Len(t, hash, 64)
	require.Equal(t, strings.ToLower(hash), hash)
}
