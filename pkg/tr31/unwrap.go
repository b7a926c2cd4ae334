package tr31

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/andrei-cloud/gotr31/pkg/cryptoutils"
)

// Unwrap parses a textual key block and, when kbpk is supplied, verifies its authenticator and
// reveals the wrapped key. A non-nil *Block is returned whenever the header parses, even when
// MAC verification or decryption subsequently fails; in that case Block.Status and the returned
// error both carry the failure kind, but Block.Key carries no data. kbpk == nil performs a
// metadata-only parse: the header and optional blocks are validated and returned, with no
// attempt to verify or decrypt the payload.
func Unwrap(text []byte, kbpk []byte) (*Block, error) {
	header, err := parseHeader(text)
	if err != nil {
		return nil, err
	}

	blockSize, err := versionBlockSize(header.Version)
	if err != nil {
		return nil, err
	}

	block := &Block{
		Header: header,
		Key: Key{
			Usage:         header.Usage,
			Algorithm:     header.Algorithm,
			ModeOfUse:     header.ModeOfUse,
			KeyVersion:    header.KeyVersion,
			Exportability: header.Exportability,
		},
	}

	opts, optLen, err := parseOptionalBlocks(text[headerLen:], header.OptBlockCount)
	if err != nil {
		block.Status = err

		return block, err
	}
	block.OptionalBlocks = opts

	if kbpk == nil {
		return block, nil
	}

	authLen, err := authenticatorLen(header.Version)
	if err != nil {
		block.Status = err

		return block, err
	}

	remainder := text[headerLen+optLen:]
	ciphertextHexLen := len(remainder) - authLen*2
	if ciphertextHexLen <= 0 || ciphertextHexLen%2 != 0 {
		err := newErr(ErrInvalidLength, "key block textual length inconsistent with authenticator length")
		block.Status = err

		return block, err
	}

	ciphertext, err := hex.DecodeString(strings.ToUpper(string(remainder[:ciphertextHexLen])))
	if err != nil {
		err = wrapErr(ErrInvalidCharacter, err, "non-hex ciphertext")
		block.Status = err

		return block, err
	}

	mac, err := hex.DecodeString(strings.ToUpper(string(remainder[ciphertextHexLen:])))
	if err != nil {
		err = wrapErr(ErrInvalidCharacter, err, "non-hex authenticator")
		block.Status = err

		return block, err
	}

	derived, err := deriveKeys(header.Version, kbpk)
	if err != nil {
		block.Status = err

		return block, err
	}

	algorithm, err := kbpkAlgorithm(header.Version)
	if err != nil {
		block.Status = err

		return block, err
	}

	headerBytes, err := header.marshal()
	if err != nil {
		block.Status = err

		return block, err
	}
	// MAC coverage uses the optional-block region exactly as it appeared on the wire, not a
	// re-marshaled form, so that blocks with non-canonical-but-valid encodings still verify.
	macPrefix := append(append([]byte(nil), headerBytes...), text[headerLen:headerLen+optLen]...)

	var plaintext []byte
	switch header.Version {
	case 'B', 'D':
		iv := mac
		if len(iv) < blockSize {
			err := newErr(ErrInvalidLength, "authenticator shorter than block size for iv use")
			block.Status = err

			return block, err
		}
		plaintext, err = cbcDecrypt(algorithm, derived.kbek, padIV(iv, blockSize), ciphertext)
		if err != nil {
			err = wrapErr(ErrDecryptionFailed, err, "cbc decrypt")
			block.Status = err

			return block, err
		}

		computed, err := cmacUnder(algorithm, derived.kbak, append(append([]byte(nil), macPrefix...), plaintext...))
		if err != nil {
			err = wrapErr(ErrInternal, err, "mac computation")
			block.Status = err

			return block, err
		}
		if !cryptoutils.ConstantTimeEqual(computed[:authLen], mac) {
			err := newErr(ErrMACVerificationFailed, "authenticator mismatch")
			block.Status = err

			return block, err
		}
	case 'A', 'C':
		computed, err := cryptoutils.CBCMACTDES(derived.kbak, append(append([]byte(nil), macPrefix...), ciphertext...))
		if err != nil {
			err = wrapErr(ErrInternal, err, "mac computation")
			block.Status = err

			return block, err
		}
		if !cryptoutils.ConstantTimeEqual(computed[:authLen], mac) {
			err := newErr(ErrMACVerificationFailed, "authenticator mismatch")
			block.Status = err

			return block, err
		}

		iv := make([]byte, blockSize)
		plaintext, err = cbcDecrypt(algorithm, derived.kbek, iv, ciphertext)
		if err != nil {
			err = wrapErr(ErrDecryptionFailed, err, "cbc decrypt")
			block.Status = err

			return block, err
		}
	default:
		err := newErr(ErrUnsupportedVersion, "unsupported key block version %q", string(header.Version))
		block.Status = err

		return block, err
	}

	if len(plaintext) < 2 {
		err := newErr(ErrInvalidKeyLength, "payload shorter than length field")
		block.Status = err

		return block, err
	}
	keyLenBits := int(binary.BigEndian.Uint16(plaintext[:2]))
	keyLenBytes := (keyLenBits + 7) / 8
	if keyLenBits%8 != 0 || keyLenBytes < 0 || 2+keyLenBytes > len(plaintext) {
		err := newErr(ErrInvalidKeyLength, "embedded key length %d bits inconsistent with payload size", keyLenBits)
		block.Status = err

		return block, err
	}

	block.Key.data = append([]byte(nil), plaintext[2:2+keyLenBytes]...)

	return block, nil
}

// padIV returns iv truncated or zero-extended to exactly n bytes, used when the B/D
// authenticator serves as the CBC IV. Unwrap rejects an authenticator shorter than the cipher
// block size before calling it, so there the zero-extension branch is not reached.
func padIV(iv []byte, n int) []byte {
	if len(iv) >= n {
		return iv[:n]
	}
	out := make([]byte, n)
	copy(out, iv)

	return out
}
