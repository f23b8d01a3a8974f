package signature_test

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

// =============================================================================

func Test_Hash(t *testing.T) {
	type table struct {
		data string
		hash string
	}

	tt := []table{
		{data: "", hash: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{data: "abc", hash: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	t.Log("Given the need to hash data with SHA-256.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen hashing %q.", testID, tst.data)
			{
				h := signature.Hash(tst.data)
				if h != tst.hash {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, h)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.hash)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right hash.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right hash.", success, testID)

				if h != signature.Hash(tst.data) {
					t.Fatalf("\t%s\tTest %d:\tShould get back the same hash twice.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the same hash twice.", success, testID)
			}
		}
	}
}

func Test_SignVerify(t *testing.T) {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	digest := signature.Hash("Bill")
	pubHex := signature.PublicKeyHex(pk.PublicKey)

	t.Log("Given the need to sign and verify a digest.")
	{
		sig, err := signature.Sign(digest, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign data.", success)

		if len(sig) != 2*signature.SignatureLength {
			t.Fatalf("\t%s\tShould get a %d byte signature, got %d hex chars.", failed, signature.SignatureLength, len(sig))
		}
		t.Logf("\t%s\tShould get a %d byte signature.", success, signature.SignatureLength)

		if err := signature.Verify(digest, pubHex, sig); err != nil {
			t.Fatalf("\t%s\tShould be able to verify the signature: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to verify the signature.", success)

		uncompressed := hex.EncodeToString(crypto.FromECDSAPub(&pk.PublicKey))
		if err := signature.Verify(digest, uncompressed, sig); err != nil {
			t.Fatalf("\t%s\tShould be able to verify with the uncompressed key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to verify with the uncompressed key.", success)

		if err := signature.Verify(signature.Hash("Jill"), pubHex, sig); !errors.Is(err, signature.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould fail to verify a different digest: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail to verify a different digest.", success)

		if err := signature.Verify(digest, pubHex, sig[:len(sig)-2]); !errors.Is(err, signature.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould fail to verify a short signature: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail to verify a short signature.", success)

		if err := signature.Verify(digest, pubHex, "zz"+sig[2:]); !errors.Is(err, signature.ErrInvalidSignature) {
			t.Fatalf("\t%s\tShould fail to verify a signature that is not hex: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail to verify a signature that is not hex.", success)

		if err := signature.Verify(digest, "05"+pubHex[2:], sig); !errors.Is(err, signature.ErrInvalidPublicKey) {
			t.Fatalf("\t%s\tShould fail to parse a bad public key: %v", failed, err)
		}
		t.Logf("\t%s\tShould fail to parse a bad public key.", success)
	}
}

func Test_Address(t *testing.T) {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	t.Log("Given the need to derive an address from a public key.")
	{
		addr := signature.PublicKeyToAddress(pk.PublicKey)

		if len(addr) != 66 {
			t.Fatalf("\t%s\tShould get a 33 byte compressed key, got %d hex chars.", failed, len(addr))
		}
		t.Logf("\t%s\tShould get a 33 byte compressed key.", success)

		if !strings.HasPrefix(addr, "02") && !strings.HasPrefix(addr, "03") {
			t.Fatalf("\t%s\tShould get a compressed key prefix, got %s.", failed, addr[:2])
		}
		t.Logf("\t%s\tShould get a compressed key prefix.", success)

		raw, err := hex.DecodeString(addr)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to decode the address: %s", failed, err)
		}
		if _, err := signature.ParsePublicKey(raw); err != nil {
			t.Fatalf("\t%s\tShould be able to parse the address as a key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to parse the address as a key.", success)

		if addr != signature.PublicKeyToAddress(pk.PublicKey) {
			t.Fatalf("\t%s\tShould get the same address twice.", failed)
		}
		t.Logf("\t%s\tShould get the same address twice.", success)
	}
}
