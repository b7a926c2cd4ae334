// Package cryptoutils provides low-level binary and block-cipher helpers shared by the
// tr31 key-block codec: ECB mode, CBC encrypt/decrypt with explicit IVs, key-length
// normalization for 3DES, and generic byte utilities.
package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	KeyLengthSingle = 8
	KeyLengthDouble = 16
	KeyLengthTriple = 24
)

// ecb wraps a cipher.Block to provide ECB mode.
type ecb struct{ b cipher.Block }

type ecbEncrypter ecb

type ecbDecrypter ecb

// Raw2Str converts raw binary data to an uppercase hex string.
func Raw2Str(raw []byte) string {
	return strings.ToUpper(hex.EncodeToString(raw))
}

// Raw2B returns the uppercase hex representation of raw data as bytes.
func Raw2B(raw []byte) []byte {
	return []byte(Raw2Str(raw))
}

// PrepareTripleDESKey extends a single or double length key to triple length (K1K2K1/K1K1K1).
// Triple-length keys pass through unchanged.
func PrepareTripleDESKey(key []byte) []byte {
	var key24 []byte
	switch len(key) {
	case KeyLengthSingle:
		key24 = make([]byte, KeyLengthTriple)
		copy(key24, key)
		copy(key24[KeyLengthSingle:], key)
		copy(key24[KeyLengthDouble:], key)
	case KeyLengthDouble:
		key24 = make([]byte, KeyLengthTriple)
		copy(key24, key)
		copy(key24[KeyLengthDouble:], key[:KeyLengthSingle])
	default:
		key24 = key
	}

	return key24
}

// NewECBEncrypter returns a cipher.BlockMode for ECB encryption.
func NewECBEncrypter(b cipher.Block) cipher.BlockMode {
	return (*ecbEncrypter)(&ecb{b: b})
}

func (x *ecbEncrypter) BlockSize() int { return x.b.BlockSize() }

func (x *ecbEncrypter) CryptBlocks(dst, src []byte) {
	if len(src)%x.BlockSize() != 0 {
		panic(fmt.Sprintf(
			"cryptoutils: input length %d not a multiple of block size %d",
			len(src),
			x.BlockSize(),
		))
	}
	for len(src) > 0 {
		x.b.Encrypt(dst[:x.BlockSize()], src[:x.BlockSize()])
		src = src[x.BlockSize():]
		dst = dst[x.BlockSize():]
	}
}

// NewECBDecrypter returns a cipher.BlockMode for ECB decryption.
func NewECBDecrypter(b cipher.Block) cipher.BlockMode {
	return (*ecbDecrypter)(&ecb{b: b})
}

func (x *ecbDecrypter) BlockSize() int { return x.b.BlockSize() }

func (x *ecbDecrypter) CryptBlocks(dst, src []byte) {
	if len(src)%x.BlockSize() != 0 {
		panic(fmt.Sprintf(
			"cryptoutils: input length %d not a multiple of block size %d",
			len(src),
			x.BlockSize(),
		))
	}
	for len(src) > 0 {
		x.b.Decrypt(dst[:x.BlockSize()], src[:x.BlockSize()])
		src = src[x.BlockSize():]
		dst = dst[x.BlockSize():]
	}
}

// TDESECBEncrypt encrypts a single 8-byte block under a 16- or 24-byte 3DES key, no padding.
func TDESECBEncrypt(key, block []byte) ([]byte, error) {
	if len(block) != des.BlockSize {
		return nil, fmt.Errorf("cryptoutils: tdes ecb block must be %d bytes, got %d", des.BlockSize, len(block))
	}
	c, err := des.NewTripleDESCipher(PrepareTripleDESKey(key))
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: tdes cipher init: %w", err)
	}
	dst := make([]byte, des.BlockSize)
	NewECBEncrypter(c).CryptBlocks(dst, block)

	return dst, nil
}

// TDESECBDecrypt decrypts a single 8-byte block under a 16- or 24-byte 3DES key.
func TDESECBDecrypt(key, block []byte) ([]byte, error) {
	if len(block) != des.BlockSize {
		return nil, fmt.Errorf("cryptoutils: tdes ecb block must be %d bytes, got %d", des.BlockSize, len(block))
	}
	c, err := des.NewTripleDESCipher(PrepareTripleDESKey(key))
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: tdes cipher init: %w", err)
	}
	dst := make([]byte, des.BlockSize)
	NewECBDecrypter(c).CryptBlocks(dst, block)

	return dst, nil
}

// TDESCBCEncrypt encrypts block-aligned data under a 3DES key with an explicit IV. No padding
// is applied; callers must pre-pad to a multiple of the 8-byte DES block size.
func TDESCBCEncrypt(key, iv, plain []byte) ([]byte, error) {
	if len(plain)%des.BlockSize != 0 {
		return nil, errors.New("cryptoutils: tdes cbc input not block aligned")
	}
	c, err := des.NewTripleDESCipher(PrepareTripleDESKey(key))
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: tdes cipher init: %w", err)
	}
	dst := make([]byte, len(plain))
	cipher.NewCBCEncrypter(c, iv).CryptBlocks(dst, plain)

	return dst, nil
}

// TDESCBCDecrypt decrypts block-aligned data under a 3DES key with an explicit IV.
func TDESCBCDecrypt(key, iv, cipherText []byte) ([]byte, error) {
	if len(cipherText)%des.BlockSize != 0 {
		return nil, errors.New("cryptoutils: tdes cbc input not block aligned")
	}
	c, err := des.NewTripleDESCipher(PrepareTripleDESKey(key))
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: tdes cipher init: %w", err)
	}
	dst := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(c, iv).CryptBlocks(dst, cipherText)

	return dst, nil
}

// AESECBEncryptBlock encrypts a single 16-byte block under an AES key, no padding.
func AESECBEncryptBlock(key, block []byte) ([]byte, error) {
	if len(block) != aes.BlockSize {
		return nil, fmt.Errorf("cryptoutils: aes ecb block must be %d bytes, got %d", aes.BlockSize, len(block))
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: aes cipher init: %w", err)
	}
	dst := make([]byte, aes.BlockSize)
	c.Encrypt(dst, block)

	return dst, nil
}

// AESCBCEncrypt encrypts block-aligned data under an AES key with an explicit IV, no padding.
func AESCBCEncrypt(key, iv, plain []byte) ([]byte, error) {
	if len(plain)%aes.BlockSize != 0 {
		return nil, errors.New("cryptoutils: aes cbc input not block aligned")
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: aes cipher init: %w", err)
	}
	dst := make([]byte, len(plain))
	cipher.NewCBCEncrypter(c, iv).CryptBlocks(dst, plain)

	return dst, nil
}

// AESCBCDecrypt decrypts block-aligned data under an AES key with an explicit IV.
func AESCBCDecrypt(key, iv, cipherText []byte) ([]byte, error) {
	if len(cipherText)%aes.BlockSize != 0 {
		return nil, errors.New("cryptoutils: aes cbc input not block aligned")
	}
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: aes cipher init: %w", err)
	}
	dst := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(c, iv).CryptBlocks(dst, cipherText)

	return dst, nil
}

// Chunk splits b into blocks of size sz. The last block may be shorter if needed.
func Chunk(b []byte, sz int) [][]byte {
	if sz <= 0 {
		return nil
	}
	n := (len(b) + sz - 1) / sz
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		start := i * sz
		end := start + sz
		if end > len(b) {
			end = len(b)
		}
		out[i] = b[start:end]
	}

	return out
}

// XORBytes returns a^b for equal-length slices. Returns error if lengths differ.
func XORBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, errors.New("cryptoutils: xor length mismatch")
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out, nil
}
