package tr31

import "fmt"

// KeyVersionKind discriminates the three wire forms of Key.KeyVersion.
type KeyVersionKind int

const (
	// KeyVersionUnused is encoded on the wire as "00".
	KeyVersionUnused KeyVersionKind = iota
	// KeyVersionValid carries a two-digit decimal version number 0-99.
	KeyVersionValid
	// KeyVersionComponent carries a component number 1-9, encoded as "c1".."c9".
	KeyVersionComponent
)

// KeyVersion is a tagged union over the three wire forms the 2-character key-version field
// can take, per the data model's "Unused | ValidNumber(u) | Component(c)" description.
type KeyVersion struct {
	Kind  KeyVersionKind
	Value int // valid-number (0-99) or component (1-9), depending on Kind
}

// Encode renders the key version as its 2-character wire form.
func (kv KeyVersion) Encode() (string, error) {
	switch kv.Kind {
	case KeyVersionUnused:
		return "00", nil
	case KeyVersionValid:
		if kv.Value < 0 || kv.Value > 99 {
			return "", newErr(ErrInvalidKeyVersion, "valid key version %d out of range 0-99", kv.Value)
		}

		return fmt.Sprintf("%02d", kv.Value), nil
	case KeyVersionComponent:
		if kv.Value < 1 || kv.Value > 9 {
			return "", newErr(ErrInvalidKeyVersion, "component number %d out of range 1-9", kv.Value)
		}

		return fmt.Sprintf("c%d", kv.Value), nil
	default:
		return "", newErr(ErrInvalidKeyVersion, "unknown key version kind %d", kv.Kind)
	}
}

// ParseKeyVersion decodes the 2-character wire form of a key-version field.
func ParseKeyVersion(s string) (KeyVersion, error) {
	if len(s) != 2 {
		return KeyVersion{}, newErr(ErrInvalidKeyVersion, "key version field must be 2 characters, got %q", s)
	}
	if s == "00" {
		return KeyVersion{Kind: KeyVersionUnused}, nil
	}
	if s[0] == 'c' || s[0] == 'C' {
		if s[1] < '1' || s[1] > '9' {
			return KeyVersion{}, newErr(ErrInvalidKeyVersion, "invalid component digit in %q", s)
		}

		return KeyVersion{Kind: KeyVersionComponent, Value: int(s[1] - '0')}, nil
	}
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return KeyVersion{}, newErr(ErrInvalidKeyVersion, "non-digit key version field %q", s)
	}

	return KeyVersion{Kind: KeyVersionValid, Value: int(s[0]-'0')*10 + int(s[1]-'0')}, nil
}

// Key represents a symmetric key and the usage attributes TR-31 binds to it.
type Key struct {
	Usage         string     // 2-char usage code, e.g. "P0"
	Algorithm     byte       // 'T' tdes, 'A' aes, 'D' des, 'H' hmac, 'R' rsa, 'S' dsa, 'E' ecc
	ModeOfUse     byte       // 'E','D','B','G','V','X','N', ...
	KeyVersion    KeyVersion
	Exportability byte // 'E','N','S'
	data          []byte
}

// NewKey builds a Key carrying clear key material. The caller retains ownership of clearKey;
// NewKey copies it so later zeroization cannot affect the caller's buffer.
func NewKey(usage string, algorithm, modeOfUse byte, version KeyVersion, exportability byte, clearKey []byte) Key {
	k := Key{
		Usage:         usage,
		Algorithm:     algorithm,
		ModeOfUse:     modeOfUse,
		KeyVersion:    version,
		Exportability: exportability,
	}
	if clearKey != nil {
		k.data = make([]byte, len(clearKey))
		copy(k.data, clearKey)
	}

	return k
}

// Data returns the clear key bytes, or nil if this Key carries metadata only (e.g. an unwrap
// performed without a KBPK).
func (k Key) Data() []byte {
	return k.data
}

// HasData reports whether clear key material is present.
func (k Key) HasData() bool {
	return k.data != nil
}

// Wipe overwrites the clear key bytes in place. Safe to call on a Key with no data.
func (k *Key) Wipe() {
	for i := range k.data {
		k.data[i] = 0
	}
	k.data = nil
}

// validate checks that usage/algorithm/mode/exportability are recognized codes, per the wrap
// path's precondition in §4.5 step 1.
func (k Key) validate() error {
	if len(k.Usage) != 2 {
		return newErr(ErrUnsupportedKeyUsage, "key usage must be 2 characters, got %q", k.Usage)
	}
	if _, ok := KeyUsage[k.Usage]; !ok {
		return newErr(ErrUnsupportedKeyUsage, "unrecognized key usage %q", k.Usage)
	}
	if _, ok := Algorithm[k.Algorithm]; !ok {
		return newErr(ErrUnsupportedAlgorithm, "unrecognized algorithm %q", string(k.Algorithm))
	}
	if _, ok := ModeOfUse[k.ModeOfUse]; !ok {
		return newErr(ErrUnsupportedModeOfUse, "unrecognized mode of use %q", string(k.ModeOfUse))
	}
	if _, ok := Exportability[k.Exportability]; !ok {
		return newErr(ErrUnsupportedExportability, "unrecognized exportability %q", string(k.Exportability))
	}

	return nil
}
