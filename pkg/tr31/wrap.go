package tr31

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/andrei-cloud/gotr31/pkg/cryptoutils"
)

// Wrap assembles a TR-31 key block: it validates key, derives the session keys from kbpk,
// builds the encrypted payload and authenticator per version, and returns the textual key
// block. version selects the wrap profile ('A', 'B', 'C', or 'D').
func Wrap(key Key, kbpk []byte, version byte, opts []OptionalBlock) ([]byte, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if !key.HasData() {
		return nil, newErr(ErrInvalidKeyLength, "key has no clear data to wrap")
	}

	blockSize, err := versionBlockSize(version)
	if err != nil {
		return nil, err
	}

	derived, err := deriveKeys(version, kbpk)
	if err != nil {
		return nil, err
	}

	payload, err := buildPayload(key.Data(), blockSize)
	if err != nil {
		return nil, err
	}

	optBytes, optCount, err := marshalOptionalBlocks(opts, blockSize)
	if err != nil {
		return nil, err
	}

	authLen, err := authenticatorLen(version)
	if err != nil {
		return nil, err
	}

	// fixpoint: the header's length field depends on ciphertext/MAC sizes, which are already
	// known at this point (payload is pre-padded, authenticator length is fixed per version),
	// so a single pass suffices — no iteration is needed since optional-block and payload
	// sizes do not depend on the header's own length field.
	totalLen := headerLen + len(optBytes) + 2*len(payload) + 2*authLen

	header := Header{
		Version:       version,
		Length:        totalLen,
		Usage:         key.Usage,
		Algorithm:     key.Algorithm,
		ModeOfUse:     key.ModeOfUse,
		KeyVersion:    key.KeyVersion,
		Exportability: key.Exportability,
		OptBlockCount: optCount,
	}

	headerBytes, err := header.marshal()
	if err != nil {
		return nil, err
	}

	algorithm, err := kbpkAlgorithm(version)
	if err != nil {
		return nil, err
	}

	macInput := append(append([]byte(nil), headerBytes...), optBytes...)

	var ciphertext, mac []byte
	switch version {
	case 'B', 'D':
		fullMAC, err := cmacUnder(algorithm, derived.kbak, append(append([]byte(nil), macInput...), payload...))
		if err != nil {
			return nil, wrapErr(ErrInternal, err, "mac computation")
		}
		mac = fullMAC[:authLen]

		iv := fullMAC[:blockSize]
		ciphertext, err = cbcEncrypt(algorithm, derived.kbek, iv, payload)
		if err != nil {
			return nil, err
		}
	case 'A', 'C':
		iv := make([]byte, blockSize)
		ciphertext, err = cbcEncrypt(algorithm, derived.kbek, iv, payload)
		if err != nil {
			return nil, err
		}

		fullMAC, err := cryptoutils.CBCMACTDES(derived.kbak, append(append([]byte(nil), macInput...), ciphertext...))
		if err != nil {
			return nil, wrapErr(ErrInternal, err, "mac computation")
		}
		mac = fullMAC[:authLen]
	default:
		return nil, newErr(ErrUnsupportedVersion, "unsupported key block version %q", string(version))
	}

	var out strings.Builder
	out.Write(headerBytes)
	out.Write(optBytes)
	out.WriteString(strings.ToUpper(hex.EncodeToString(ciphertext)))
	out.WriteString(strings.ToUpper(hex.EncodeToString(mac)))

	return []byte(out.String()), nil
}

// buildPayload constructs the plaintext payload: uint16_be(keyLenBits) || keyBytes || pad,
// where pad is cryptographically random and brings the payload to a multiple of blockSize.
func buildPayload(clearKey []byte, blockSize int) ([]byte, error) {
	keyLenBits := len(clearKey) * 8
	if keyLenBits > 0xFFFF {
		return nil, newErr(ErrInvalidKeyLength, "key length %d bits exceeds 16-bit field", keyLenBits)
	}

	head := make([]byte, 2)
	binary.BigEndian.PutUint16(head, uint16(keyLenBits))

	unpadded := len(head) + len(clearKey)
	padLen := (blockSize - unpadded%blockSize) % blockSize

	pad := make([]byte, padLen)
	if padLen > 0 {
		if _, err := rand.Read(pad); err != nil {
			return nil, wrapErr(ErrInternal, err, "generating payload pad")
		}
	}

	payload := make([]byte, 0, unpadded+padLen)
	payload = append(payload, head...)
	payload = append(payload, clearKey...)
	payload = append(payload, pad...)

	return payload, nil
}

// authenticatorLen returns the authenticator byte length for a version, per invariant 3.
func authenticatorLen(version byte) (int, error) {
	switch version {
	case 'A', 'C':
		return 4, nil
	case 'B':
		return 8, nil
	case 'D':
		return 16, nil
	default:
		return 0, newErr(ErrUnsupportedVersion, "unsupported key block version %q", string(version))
	}
}

// cbcEncrypt dispatches to the TDES or AES CBC primitive according to algorithm.
func cbcEncrypt(algorithm byte, key, iv, plain []byte) ([]byte, error) {
	switch algorithm {
	case 'T':
		return cryptoutils.TDESCBCEncrypt(key, iv, plain)
	case 'A':
		return cryptoutils.AESCBCEncrypt(key, iv, plain)
	default:
		return nil, newErr(ErrUnsupportedKBPKAlgorithm, "unsupported kbpk algorithm %q", string(algorithm))
	}
}

// cbcDecrypt dispatches to the TDES or AES CBC primitive according to algorithm.
func cbcDecrypt(algorithm byte, key, iv, cipherText []byte) ([]byte, error) {
	switch algorithm {
	case 'T':
		return cryptoutils.TDESCBCDecrypt(key, iv, cipherText)
	case 'A':
		return cryptoutils.AESCBCDecrypt(key, iv, cipherText)
	default:
		return nil, newErr(ErrUnsupportedKBPKAlgorithm, "unsupported kbpk algorithm %q", string(algorithm))
	}
}
