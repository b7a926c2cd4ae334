package tr31

import (
	"encoding/binary"

	"github.com/andrei-cloud/gotr31/pkg/cryptoutils"
)

// derivedKeys holds the two key-block session keys: one for encryption (KBEK) and one for
// MAC/authentication (KBAK), both the same length as the KBPK they were derived from.
type derivedKeys struct {
	kbek []byte
	kbak []byte
}

// algIDFor maps a key-block protection key length and algorithm family to the 2-byte algorithm
// code used as input to the CMAC derivation method, per §4.3.
func algIDFor(algorithm byte, kbpkLen int) (uint16, error) {
	switch algorithm {
	case 'T':
		switch kbpkLen {
		case 16:
			return 0x0000, nil
		case 24:
			return 0x0001, nil
		default:
			return 0, newErr(ErrUnsupportedKBPKLength, "tdes kbpk must be 16 or 24 bytes, got %d", kbpkLen)
		}
	case 'A':
		switch kbpkLen {
		case 16:
			return 0x0002, nil
		case 24:
			return 0x0003, nil
		case 32:
			return 0x0004, nil
		default:
			return 0, newErr(ErrUnsupportedKBPKLength, "aes kbpk must be 16, 24, or 32 bytes, got %d", kbpkLen)
		}
	default:
		return 0, newErr(ErrUnsupportedKBPKAlgorithm, "unsupported kbpk algorithm %q", string(algorithm))
	}
}

// kbpkAlgorithm returns the block-cipher algorithm family ('T' or 'A') implied by a key block
// version character, per §4.3/§4.4: versions A/B/C are TDES, D is AES.
func kbpkAlgorithm(version byte) (byte, error) {
	switch version {
	case 'A', 'B', 'C':
		return 'T', nil
	case 'D':
		return 'A', nil
	default:
		return 0, newErr(ErrUnsupportedVersion, "unsupported key block version %q", string(version))
	}
}

// deriveVariant implements the variant key-derivation method used by versions A and C: KBEK is
// the KBPK XORed with the byte 0x45 repeated, KBAK with 0x4D repeated, grounded on
// tr31_tdes_kbpk_variant in the reference C implementation.
func deriveVariant(kbpk []byte) (derivedKeys, error) {
	kbek, err := cryptoutils.XORBytes(kbpk, bytesRepeat(0x45, len(kbpk)))
	if err != nil {
		return derivedKeys{}, wrapErr(ErrInternal, err, "variant derivation of kbek")
	}
	kbak, err := cryptoutils.XORBytes(kbpk, bytesRepeat(0x4D, len(kbpk)))
	if err != nil {
		return derivedKeys{}, wrapErr(ErrInternal, err, "variant derivation of kbak")
	}

	return derivedKeys{kbek: kbek, kbak: kbak}, nil
}

// bytesRepeat returns a slice of n bytes, each equal to b.
func bytesRepeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}

	return out
}

// cmacUnder computes a full-block CMAC under kbpk, dispatching to the TDES or AES primitive
// according to algorithm.
func cmacUnder(algorithm byte, kbpk, msg []byte) ([]byte, error) {
	switch algorithm {
	case 'T':
		return cryptoutils.CMACTDES(kbpk, msg)
	case 'A':
		return cryptoutils.CMACAES(kbpk, msg)
	default:
		return nil, newErr(ErrUnsupportedKBPKAlgorithm, "unsupported kbpk algorithm %q", string(algorithm))
	}
}

// deriveCMACKey derives a single key-block session key (KBEK or KBAK) using the CMAC-based
// method of §4.3: for each block i = 1..n of the derived key, CMAC(kbpk, counter(i) || purpose ||
// algorithm || length_bits_be) is computed, and the outputs are concatenated and truncated to
// the KBPK's byte length. Grounded on tr31_tdes_kbpk_derive in the reference C implementation.
func deriveCMACKey(algorithm byte, kbpk []byte, purpose uint16) ([]byte, error) {
	blockSize, err := blockSizeFor(algorithm)
	if err != nil {
		return nil, err
	}

	algID, err := algIDFor(algorithm, len(kbpk))
	if err != nil {
		return nil, err
	}

	keyLenBits := uint16(len(kbpk) * 8)

	n := (len(kbpk) + blockSize - 1) / blockSize
	out := make([]byte, 0, n*blockSize)
	for i := 1; i <= n; i++ {
		input := cmacDerivationInput(blockSize, byte(i), purpose, algID, keyLenBits)

		mac, err := cmacUnder(algorithm, kbpk, input)
		if err != nil {
			return nil, wrapErr(ErrInternal, err, "cmac derivation block %d", i)
		}
		out = append(out, mac...)
	}

	return out[:len(kbpk)], nil
}

// cmacDerivationInput builds one counter-indexed CMAC derivation input block: a 1-byte counter,
// the 2-byte purpose, a reserved zero byte, the 2-byte algorithm code, and the 2-byte key length
// in bits, zero-padded to blockSize. Layout confirmed against the reference implementation's
// tr31_derive_kbek_tdes2_input/tr31_derive_kbak_tdes2_input constants.
func cmacDerivationInput(blockSize int, counter byte, purpose, algID, keyLenBits uint16) []byte {
	input := make([]byte, blockSize)
	input[0] = counter
	binary.BigEndian.PutUint16(input[1:3], purpose)
	// input[3] stays zero (reserved).
	binary.BigEndian.PutUint16(input[4:6], algID)
	binary.BigEndian.PutUint16(input[6:8], keyLenBits)

	return input
}

// blockSizeFor returns the cipher block size for a kbpk algorithm family.
func blockSizeFor(algorithm byte) (int, error) {
	switch algorithm {
	case 'T':
		return 8, nil
	case 'A':
		return 16, nil
	default:
		return 0, newErr(ErrUnsupportedKBPKAlgorithm, "unsupported kbpk algorithm %q", string(algorithm))
	}
}

// deriveCMAC implements the CMAC-based key-derivation method used by versions B (TDES) and D
// (AES): KBEK uses purpose 0x0000, KBAK uses purpose 0x0001.
func deriveCMAC(algorithm byte, kbpk []byte) (derivedKeys, error) {
	kbek, err := deriveCMACKey(algorithm, kbpk, 0x0000)
	if err != nil {
		return derivedKeys{}, err
	}
	kbak, err := deriveCMACKey(algorithm, kbpk, 0x0001)
	if err != nil {
		return derivedKeys{}, err
	}

	return derivedKeys{kbek: kbek, kbak: kbak}, nil
}

// deriveKeys selects and runs the derivation method implied by version, validating the KBPK
// length against the version's algorithm family per invariant 5.
func deriveKeys(version byte, kbpk []byte) (derivedKeys, error) {
	algorithm, err := kbpkAlgorithm(version)
	if err != nil {
		return derivedKeys{}, err
	}

	if err := validateKBPKLength(algorithm, len(kbpk)); err != nil {
		return derivedKeys{}, err
	}

	switch version {
	case 'A', 'C':
		return deriveVariant(kbpk)
	case 'B', 'D':
		return deriveCMAC(algorithm, kbpk)
	default:
		return derivedKeys{}, newErr(ErrUnsupportedVersion, "unsupported key block version %q", string(version))
	}
}

// validateKBPKLength enforces invariant 5: A/B/C require TDES double or triple length, D
// requires AES-128/192/256.
func validateKBPKLength(algorithm byte, n int) error {
	switch algorithm {
	case 'T':
		if n != 16 && n != 24 {
			return newErr(ErrUnsupportedKBPKLength, "tdes kbpk must be 16 or 24 bytes, got %d", n)
		}
	case 'A':
		if n != 16 && n != 24 && n != 32 {
			return newErr(ErrUnsupportedKBPKLength, "aes kbpk must be 16, 24, or 32 bytes, got %d", n)
		}
	default:
		return newErr(ErrUnsupportedKBPKAlgorithm, "unsupported kbpk algorithm %q", string(algorithm))
	}

	return nil
}
