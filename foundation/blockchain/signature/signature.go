// Package signature provides helper functions for handling the blockchain
// signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size of a raw [R|S] signature in bytes.
const SignatureLength = 64

// digestLength is the size of a SHA-256 digest in bytes.
const digestLength = sha256.Size

// Set of errors returned by Verify.
var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// =============================================================================

// Hash returns the hex encoded SHA-256 digest of the data. The output has no
// 0x prefix.
func Hash(data string) string {
	hash := sha256.Sum256([]byte(data))
	return common.Bytes2Hex(hash[:])
}

// Sign uses the specified private key to sign the hex encoded digest. The
// digest is signed as is and is not hashed again. The signature is returned
// as a hex encoded [R|S] value.
func Sign(digestHex string, privateKey *ecdsa.PrivateKey) (string, error) {
	digest, err := toDigest(digestHex)
	if err != nil {
		return "", err
	}

	// Sign the digest with the private key to produce a 65 byte [R|S|V]
	// signature. The recovery id is not part of our format.
	sig, err := crypto.Sign(digest, privateKey)
	if err != nil {
		return "", err
	}

	return common.Bytes2Hex(sig[:crypto.RecoveryIDOffset]), nil
}

// Verify checks the hex encoded signature was produced over the hex encoded
// digest by the private key belonging to the hex encoded public key.
func Verify(digestHex string, publicKeyHex string, sigHex string) error {
	publicKey, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return fmt.Errorf("%w: hex: %s", ErrInvalidPublicKey, err)
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("%w: hex: %s", ErrInvalidSignature, err)
	}

	if len(sig) != SignatureLength {
		return fmt.Errorf("%w: length got %d, exp %d", ErrInvalidSignature, len(sig), SignatureLength)
	}

	if _, err := ParsePublicKey(publicKey); err != nil {
		return err
	}

	digest, err := toDigest(digestHex)
	if err != nil {
		return err
	}

	if !crypto.VerifySignature(publicKey, digest, sig) {
		return ErrInvalidSignature
	}

	return nil
}

// ParsePublicKey parses a SEC1 encoded public key in either the compressed
// or the uncompressed form.
func ParsePublicKey(publicKey []byte) (*secp256k1.PublicKey, error) {
	pk, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}

	return pk, nil
}

// PublicKeyHex returns the hex encoding of the compressed public key.
func PublicKeyHex(publicKey ecdsa.PublicKey) string {
	return common.Bytes2Hex(crypto.CompressPubkey(&publicKey))
}

// PublicKeyToAddress converts the public key to an address. An address is
// the hex encoding of the compressed public key.
func PublicKeyToAddress(publicKey ecdsa.PublicKey) string {
	return PublicKeyHex(publicKey)
}

// =============================================================================

// toDigest decodes a hex encoded digest and checks its length.
func toDigest(digestHex string) ([]byte, error) {
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return nil, fmt.Errorf("digest hex: %w", err)
	}

	if len(digest) != digestLength {
		return nil, fmt.Errorf("digest length got %d, exp %d", len(digest), digestLength)
	}

	return digest, nil
}
