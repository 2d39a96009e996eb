// Package vault implements the triple-layer payload cipher used to protect
// transaction payloads before they are submitted to the ledger. The ledger
// itself never inspects payload confidentiality, only the structural fields.
package vault

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

const (
	masterKeyLength = 32
	macLength       = 32
)

// Vault applies three layers of work over a payload: an XOR keystream, a byte
// substitution and a SHA3-256 MAC for integrity. The layer keys are derived
// from a single master key.
type Vault struct {
	masterKey []byte
	layer1Key []byte
	layer2Key []byte
	layer3Key []byte
}

// New constructs a vault from the provided master key. Pass the empty string
// to generate a random key.
func New(masterKey string) (*Vault, error) {
	var key []byte
	switch {
	case masterKey != "":
		key = []byte(masterKey)
	default:
		key = make([]byte, masterKeyLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating master key: %w", err)
		}
	}

	v := Vault{masterKey: key}
	v.deriveLayerKeys()

	return &v, nil
}

// Encrypt applies the three layers to the plaintext and returns a base64
// envelope of ciphertext followed by the MAC.
func (v *Vault) Encrypt(plaintext string) string {
	data := []byte(plaintext)

	data = xorKeystream(data, v.layer1Key)
	data = substitute(data, v.layer2Key)

	mac := v.sign(data)
	envelope := append(data, mac...)

	return base64.StdEncoding.EncodeToString(envelope)
}

// Decrypt unwraps the envelope, verifies the MAC and reverses the two cipher
// layers. The boolean reports whether verification succeeded.
func (v *Vault) Decrypt(ciphertext string) (string, bool) {
	envelope, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil || len(envelope) < macLength {
		return "", false
	}

	data := envelope[:len(envelope)-macLength]
	mac := envelope[len(envelope)-macLength:]

	if subtle.ConstantTimeCompare(v.sign(data), mac) != 1 {
		return "", false
	}

	data = unsubstitute(data, v.layer2Key)
	data = xorKeystream(data, v.layer1Key)

	return string(data), true
}

// MasterKeyHash returns a hex digest of the master key for verification
// without revealing the key itself.
func (v *Vault) MasterKeyHash() string {
	hash := sha3.Sum256(v.masterKey)
	return hex.EncodeToString(hash[:])
}

// RotateKeys replaces the master key and rederives the layer keys. Pass the
// empty string to generate a random key. Ciphertexts produced under the old
// key no longer verify. The new master key hash is returned.
func (v *Vault) RotateKeys(newMasterKey string) (string, error) {
	switch {
	case newMasterKey != "":
		v.masterKey = []byte(newMasterKey)
	default:
		key := make([]byte, masterKeyLength)
		if _, err := rand.Read(key); err != nil {
			return "", fmt.Errorf("generating master key: %w", err)
		}
		v.masterKey = key
	}

	v.deriveLayerKeys()

	return v.MasterKeyHash(), nil
}

// =============================================================================

// deriveLayerKeys binds each layer to its own key so no layer can be peeled
// without the master key.
func (v *Vault) deriveLayerKeys() {
	v.layer1Key = deriveKey(v.masterKey, "layer1")
	v.layer2Key = deriveKey(v.masterKey, "layer2")
	v.layer3Key = deriveKey(v.masterKey, "layer3")
}

// sign produces the layer 3 MAC over the data.
func (v *Vault) sign(data []byte) []byte {
	h := sha3.New256()
	h.Write(data)
	h.Write(v.layer3Key)
	return h.Sum(nil)
}

func deriveKey(masterKey []byte, label string) []byte {
	h := sha3.New256()
	h.Write(masterKey)
	h.Write([]byte(label))
	return h.Sum(nil)
}

// xorKeystream is its own inverse.
func xorKeystream(data []byte, key []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out
}

func substitute(data []byte, key []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] + key[i%len(key)]
	}
	return out
}

func unsubstitute(data []byte, key []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] - key[i%len(key)]
	}
	return out
}
