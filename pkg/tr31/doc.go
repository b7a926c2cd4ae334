// Package tr31 implements ANSI TR-31 / ASC X9.143 interchange key block wrapping: a
// standardized textual container used in retail payments to transport symmetric
// cryptographic keys, with usage attributes (purpose, algorithm, mode of use,
// exportability) cryptographically bound to the key so a receiver cannot misuse a key
// whose header has been tampered with.
//
// Four wrap profiles are supported, selected by the header's version character:
//
//	A - TDES, variant key derivation, encrypt-then-MAC, 4-byte authenticator
//	B - TDES, CMAC key derivation, MAC-then-encrypt, 8-byte authenticator
//	C - TDES, variant key derivation, encrypt-then-MAC, 4-byte authenticator (current TR-31)
//	D - AES,  CMAC key derivation, MAC-then-encrypt, 16-byte authenticator
package tr31
