package util

import (
	"crypto/ed25519"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	sgo "github.com/gagliardetto/solana-go"
	"github.com/mikesmitty/edkey"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ssh"
)

var ErrBadKeyLength = fmt.Errorf("secret key must be %d bytes", ed25519.PrivateKeySize)

// LoadKeypair reads a solana-keygen style file: a JSON array of the 64 byte
// secret key (seed followed by public key).
func LoadKeypair(fp string) (sgo.PrivateKey, error) {
	data, err := os.ReadFile(fp)
	if err != nil {
		return nil, err
	}
	key, err := KeypairFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fp, err)
	}
	return key, nil
}

func KeypairFromJSON(data []byte) (sgo.PrivateKey, error) {
	var raw []uint8
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return KeypairFromBytes(raw)
}

// KeypairFromBytes checks the length and that the public half matches the seed.
func KeypairFromBytes(raw []byte) (sgo.PrivateKey, error) {
	if len(raw) != ed25519.PrivateKeySize {
		return nil, ErrBadKeyLength
	}
	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	for i := ed25519.SeedSize; i < ed25519.PrivateKeySize; i++ {
		if derived[i] != raw[i] {
			return nil, errors.New("public key does not match secret seed")
		}
	}
	key := make(sgo.PrivateKey, ed25519.PrivateKeySize)
	copy(key, raw)
	return key, nil
}

// KeypairToJSON renders the key as a JSON number array, not base64.
func KeypairToJSON(key sgo.PrivateKey) ([]byte, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, ErrBadKeyLength
	}
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// SaveKeypair refuses to overwrite an existing file.
func SaveKeypair(fp string, key sgo.PrivateKey) error {
	data, err := KeypairToJSON(key)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(fp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}

func KeypairToBase58(key sgo.PrivateKey) (string, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", ErrBadKeyLength
	}
	return base58.Encode(key), nil
}

func KeypairFromBase58(s string) (sgo.PrivateKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	return KeypairFromBytes(raw)
}

// ExportOpenSSH returns the key as an OpenSSH private key PEM and the
// matching authorized_keys line.
func ExportOpenSSH(key sgo.PrivateKey) (private []byte, public []byte, err error) {
	if len(key) != ed25519.PrivateKeySize {
		err = ErrBadKeyLength
		return
	}
	edPriv := ed25519.PrivateKey(key)
	private = pem.EncodeToMemory(&pem.Block{
		Type:  "OPENSSH PRIVATE KEY",
		Bytes: edkey.MarshalED25519PrivateKey(edPriv),
	})
	pub, err := ssh.NewPublicKey(edPriv.Public())
	if err != nil {
		return
	}
	public = ssh.MarshalAuthorizedKey(pub)
	return
}
