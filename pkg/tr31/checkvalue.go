package tr31

import "github.com/andrei-cloud/gotr31/pkg/cryptoutils"

// kcvLen is the number of leading bytes of the check-value primitive kept as the KCV.
const kcvLen = 3

// keyCheckValue computes the 3-byte Key Check Value of key under algorithm: the leading bytes
// of encrypting the zero block under the key for TDES, or of the AES-CMAC of the zero block
// for AES.
func keyCheckValue(algorithm byte, key []byte) ([]byte, error) {
	switch algorithm {
	case 'T':
		zero := make([]byte, 8)
		ct, err := cryptoutils.TDESECBEncrypt(key, zero)
		if err != nil {
			return nil, wrapErr(ErrInternal, err, "kcv computation")
		}

		return ct[:kcvLen], nil
	case 'A':
		zero := make([]byte, 16)
		mac, err := cryptoutils.CMACAES(key, zero)
		if err != nil {
			return nil, wrapErr(ErrInternal, err, "kcv computation")
		}

		return mac[:kcvLen], nil
	default:
		return nil, newErr(ErrUnsupportedAlgorithm, "unsupported algorithm %q for kcv", string(algorithm))
	}
}
