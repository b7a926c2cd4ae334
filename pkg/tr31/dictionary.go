package tr31

// KeyUsage is the 2-character purpose class bound to a wrapped key, e.g. "P0" (PIN encryption).
var KeyUsage = map[string]string{
	"B0": "BDK base derivation key",
	"B1": "Initial DUKPT key",
	"B2": "Base key variant key",
	"C0": "CVK card verification key",
	"D0": "Symmetric key for data encryption",
	"D1": "Asymmetric key for data encryption",
	"E0": "EMV/chip issuer master key: application cryptograms",
	"E1": "EMV/chip issuer master key: secure messaging for confidentiality",
	"E2": "EMV/chip issuer master key: secure messaging for integrity",
	"E3": "EMV/chip issuer master key: data authentication code",
	"E4": "EMV/chip issuer master key: dynamic numbers",
	"E5": "EMV/chip issuer master key: card personalization",
	"E6": "EMV/chip issuer master key: other",
	"I0": "Initialization vector (IV)",
	"K0": "Key encryption or wrapping key (KBPK)",
	"K1": "TR-31 key block protection key",
	"K2": "TR-34 asymmetric key",
	"M0": "ISO 16609 MAC key",
	"M1": "ISO 9797-1 MAC algorithm 1 key",
	"M2": "ISO 9797-1 MAC algorithm 2 key",
	"M3": "ISO 9797-1 MAC algorithm 3 key",
	"M4": "ISO 9797-1 MAC algorithm 4 key",
	"M5": "ISO 9797-1 MAC algorithm 5 key (CMAC)",
	"M6": "ISO 9797-1 MAC algorithm 5/CMAC key (alternate)",
	"P0": "PIN encryption key",
	"P1": "PIN generation key",
	"V0": "PIN verification, KPV, other algorithm",
	"V1": "PIN verification, IBM 3624",
	"V2": "PIN verification, VISA PVV",
	"V3": "PIN verification, X9.132 algorithm 1",
	"V4": "PIN verification, X9.132 algorithm 2",
}

// Algorithm is the 1-character block-cipher family code bound to a wrapped key.
var Algorithm = map[byte]string{
	'A': "AES",
	'D': "DES",
	'E': "Elliptic curve",
	'H': "HMAC",
	'R': "RSA",
	'S': "DSA",
	'T': "Triple DES",
}

// ModeOfUse is the 1-character allowed-operation class bound to a wrapped key.
var ModeOfUse = map[byte]string{
	'B': "encrypt and decrypt / wrap and unwrap",
	'C': "both generate and verify",
	'D': "decrypt / unwrap only",
	'E': "encrypt / wrap only",
	'G': "generate only",
	'N': "no special restrictions (other than restrictions implied by usage)",
	'S': "signature only",
	'T': "both sign and decrypt",
	'V': "verify only",
	'X': "key derivation",
	'Y': "key variant derivation",
}

// Exportability is the 1-character export policy bound to a wrapped key.
var Exportability = map[byte]string{
	'E': "exportable under a trusted key (KEK or higher)",
	'N': "non-exportable",
	'S': "sensitive, exportable only under conditions agreed out of band",
}

// OptionalBlockID describes known 2-character optional-block tags.
var OptionalBlockID = map[string]string{
	"CT": "public key certificate",
	"HM": "HMAC hash algorithm",
	"IK": "initial key identifier (DUKPT)",
	"KC": "key check value of the wrapped key",
	"KP": "key check value of the key block protection key",
	"KS": "key set identifier / key serial number (DUKPT)",
	"KV": "key block values version",
	"LB": "label",
	"PB": "padding block",
	"PK": "additional optional blocks for a preceding public key block",
	"TC": "time of creation",
	"TS": "timestamp, ISO-8601",
	"WP": "wrapping pedigree",
}

// describe looks up code in table, returning "unknown" if not present; unknown codes still
// pass through the wire format unmodified, this is only for display purposes.
func describe(table map[string]string, code string) string {
	if s, ok := table[code]; ok {
		return s
	}

	return "unknown"
}

func describeByte(table map[byte]string, code byte) string {
	if s, ok := table[code]; ok {
		return s
	}

	return "unknown"
}

// DescribeKeyUsage returns the human-readable description of a 2-character key usage code.
func DescribeKeyUsage(code string) string { return describe(KeyUsage, code) }

// DescribeAlgorithm returns the human-readable description of an algorithm code.
func DescribeAlgorithm(code byte) string { return describeByte(Algorithm, code) }

// DescribeModeOfUse returns the human-readable description of a mode-of-use code.
func DescribeModeOfUse(code byte) string { return describeByte(ModeOfUse, code) }

// DescribeExportability returns the human-readable description of an exportability code.
func DescribeExportability(code byte) string { return describeByte(Exportability, code) }

// DescribeOptionalBlockID returns the human-readable description of an optional-block ID.
func DescribeOptionalBlockID(id string) string { return describe(OptionalBlockID, id) }
