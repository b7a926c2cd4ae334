package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/subtle"
	"fmt"
)

// rConstant is the CMAC subkey-generation constant for a given block size, per NIST SP 800-38B.
func rConstant(blockSize int) byte {
	if blockSize == des.BlockSize {
		return 0x1B
	}

	return 0x87
}

// deriveSubkeys derives CMAC subkeys K1, K2 from an already-initialized block cipher,
// per NIST SP 800-38B section 6.1 / ISO 9797-1 algorithm 5.
func deriveSubkeys(block cipher.Block) (k1, k2 []byte) {
	bs := block.BlockSize()
	zero := make([]byte, bs)
	l := make([]byte, bs)
	block.Encrypt(l, zero)

	r := rConstant(bs)
	k1 = leftShift1(l)
	if l[0]&0x80 != 0 {
		k1[bs-1] ^= r
	}
	k2 = leftShift1(k1)
	if k1[0]&0x80 != 0 {
		k2[bs-1] ^= r
	}

	return k1, k2
}

// leftShift1 shifts a byte string left by one bit, discarding the carry out of the MSB.
func leftShift1(b []byte) []byte {
	n := len(b)
	out := make([]byte, n)
	var carry byte
	for i := n - 1; i >= 0; i-- {
		out[i] = (b[i] << 1) | carry
		carry = (b[i] >> 7) & 1
	}

	return out
}

// cmacCompute computes CMAC over msg using an already-initialized block cipher. Per the codec's
// usage (TR-31 key derivation and MAC coverage), msg is always a positive multiple of the block
// size; the ISO/IEC 9797-1 bit-padding branch for short/ragged messages is not exercised.
func cmacCompute(block cipher.Block, msg []byte) ([]byte, error) {
	bs := block.BlockSize()
	if len(msg) == 0 || len(msg)%bs != 0 {
		return nil, fmt.Errorf(
			"cryptoutils: cmac input must be a positive multiple of %d bytes, got %d",
			bs, len(msg),
		)
	}

	k1, _ := deriveSubkeys(block)

	h := make([]byte, bs)
	blocks := Chunk(msg, bs)
	for i, blk := range blocks {
		in := blk
		if i == len(blocks)-1 {
			xored, err := XORBytes(blk, k1)
			if err != nil {
				return nil, err
			}
			in = xored
		}
		xorIn, err := XORBytes(in, h)
		if err != nil {
			return nil, err
		}
		block.Encrypt(h, xorIn)
	}

	return h, nil
}

// CMACTDES computes the full-block (8-byte) TDES-CMAC of msg under a 16- or 24-byte key.
func CMACTDES(key, msg []byte) ([]byte, error) {
	block, err := des.NewTripleDESCipher(PrepareTripleDESKey(key))
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: tdes cipher init: %w", err)
	}

	return cmacCompute(block, msg)
}

// CMACAES computes the full-block (16-byte) AES-CMAC of msg under a 16/24/32-byte key.
func CMACAES(key, msg []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoutils: aes cipher init: %w", err)
	}

	return cmacCompute(block, msg)
}

// CBCMACTDES computes the ISO/IEC 9797-1 algorithm 1 CBC-MAC over block-aligned msg under a
// 16- or 24-byte 3DES key, with a zero IV. Used only by the legacy version A/C key-block scheme.
func CBCMACTDES(key, msg []byte) ([]byte, error) {
	if len(msg) == 0 || len(msg)%des.BlockSize != 0 {
		return nil, fmt.Errorf(
			"cryptoutils: cbc-mac input must be a positive multiple of %d bytes, got %d",
			des.BlockSize, len(msg),
		)
	}

	iv := make([]byte, des.BlockSize)
	out, err := TDESCBCEncrypt(key, iv, msg)
	if err != nil {
		return nil, err
	}

	return out[len(out)-des.BlockSize:], nil
}

// ConstantTimeEqual reports whether a and b are equal, in time independent of where they first
// differ. Used to gate key-material disclosure on MAC verification.
func ConstantTimeEqual(a, b []byte) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare(a, b) == 1
}
