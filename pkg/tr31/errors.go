package tr31

import "fmt"

// ErrorKind enumerates the flat set of failure categories a wrap/unwrap call can return,
// mirroring the code+description pairing of errorcodes.HSMError but as a closed Go enum.
type ErrorKind int

const (
	ErrUnsupportedVersion ErrorKind = iota
	ErrInvalidLength
	ErrInvalidCharacter
	ErrUnsupportedKeyUsage
	ErrUnsupportedAlgorithm
	ErrUnsupportedModeOfUse
	ErrInvalidKeyVersion
	ErrUnsupportedExportability
	ErrInvalidOptionalBlock
	ErrUnsupportedKBPKLength
	ErrUnsupportedKBPKAlgorithm
	ErrMACVerificationFailed
	ErrDecryptionFailed
	ErrInvalidKeyLength
	ErrInternal
)

// kindDescriptions holds the human-readable description for each ErrorKind.
var kindDescriptions = map[ErrorKind]string{
	ErrUnsupportedVersion:       "unsupported key block version",
	ErrInvalidLength:            "key block length invalid",
	ErrInvalidCharacter:         "key block contains invalid character",
	ErrUnsupportedKeyUsage:      "unsupported key usage",
	ErrUnsupportedAlgorithm:     "unsupported algorithm",
	ErrUnsupportedModeOfUse:     "unsupported mode of use",
	ErrInvalidKeyVersion:        "invalid key version field",
	ErrUnsupportedExportability: "unsupported exportability",
	ErrInvalidOptionalBlock:     "invalid optional block",
	ErrUnsupportedKBPKLength:    "unsupported key block protection key length",
	ErrUnsupportedKBPKAlgorithm: "unsupported key block protection key algorithm",
	ErrMACVerificationFailed:    "mac verification failed",
	ErrDecryptionFailed:         "decryption failed",
	ErrInvalidKeyLength:         "invalid key length",
	ErrInternal:                 "internal error",
}

// String returns the human-readable description of k.
func (k ErrorKind) String() string {
	if s, ok := kindDescriptions[k]; ok {
		return s
	}

	return "unknown error"
}

// Error wraps an ErrorKind with a contextual message and, optionally, the underlying cause.
type Error struct {
	Kind  ErrorKind
	Msg   string
	Cause error
}

// newErr builds an *Error for kind with a formatted message.
func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// wrapErr builds an *Error for kind, wrapping cause.
func wrapErr(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// DescribeError returns a human-readable description of err. Non-*Error values fall back to
// err.Error().
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
