package tr31

import (
	"encoding/hex"
	"strings"
	"testing"
)

// S1: TR-31:2018, A.7.2.1
func TestWrapS1VersionA(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("89E88CF7931444F334BD7547FC3F380C")
	clearKey, _ := hex.DecodeString("EDB380DD340BC2620247D445F5B8D678")

	k := NewKey("P0", 'T', 'E', KeyVersion{Kind: KeyVersionUnused}, 'E', clearKey)

	out, err := Wrap(k, kbpk, 'A', nil)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	wantPrefix := "A0072P0TE00E0000"
	if !strings.HasPrefix(string(out), wantPrefix) {
		t.Fatalf("Wrap() header = %q, want prefix %q", out[:len(wantPrefix)], wantPrefix)
	}
	if len(out) != 72 {
		t.Fatalf("Wrap() length = %d, want 72", len(out))
	}
}

// S2: TR-31:2018, A.7.3.2
func TestWrapS2VersionB(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("1D22BF32387C600AD97F9B97A51311AC")
	clearKey, _ := hex.DecodeString("E8BC63E5479455E26577F715D587FE68")

	k := NewKey("B0", 'T', 'X', KeyVersion{Kind: KeyVersionValid, Value: 12}, 'S', clearKey)
	opts := []OptionalBlock{{ID: "KS", Data: []byte("00604B120F9292800000")}}

	out, err := Wrap(k, kbpk, 'B', opts)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	wantPrefix := "B0104B0TX12S0100KS1800604B120F9292800000"
	if !strings.HasPrefix(string(out), wantPrefix) {
		t.Fatalf("Wrap() header = %q, want prefix %q", out[:len(wantPrefix)], wantPrefix)
	}
	if len(out) != 104 {
		t.Fatalf("Wrap() length = %d, want 104", len(out))
	}
}

// S3: TR-31:2018, A.7.3.1
func TestWrapS3VersionC(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("B8ED59E0A279A295E9F5ED7944FD06B9")
	clearKey, _ := hex.DecodeString("EDB380DD340BC2620247D445F5B8D678")

	k := NewKey("B0", 'T', 'X', KeyVersion{Kind: KeyVersionValid, Value: 12}, 'S', clearKey)
	opts := []OptionalBlock{{ID: "KS", Data: []byte("00604B120F9292800000")}}

	out, err := Wrap(k, kbpk, 'C', opts)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	wantPrefix := "C0096B0TX12S0100KS1800604B120F9292800000"
	if !strings.HasPrefix(string(out), wantPrefix) {
		t.Fatalf("Wrap() header = %q, want prefix %q", out[:len(wantPrefix)], wantPrefix)
	}
	if len(out) != 96 {
		t.Fatalf("Wrap() length = %d, want 96", len(out))
	}
}

// S4: unwrap recovers the original key, wrong KBPK fails MAC verification.
func TestWrapUnwrapRoundTripAllVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version byte
		kbpk    string
		usage   string
		alg     byte
		mode    byte
		export  byte
		key     string
	}{
		{name: "version A", version: 'A', kbpk: "89E88CF7931444F334BD7547FC3F380C", usage: "P0", alg: 'T', mode: 'E', export: 'E', key: "EDB380DD340BC2620247D445F5B8D678"},
		{name: "version B", version: 'B', kbpk: "1D22BF32387C600AD97F9B97A51311AC", usage: "B0", alg: 'T', mode: 'X', export: 'S', key: "E8BC63E5479455E26577F715D587FE68"},
		{name: "version C", version: 'C', kbpk: "B8ED59E0A279A295E9F5ED7944FD06B9", usage: "B0", alg: 'T', mode: 'X', export: 'S', key: "EDB380DD340BC2620247D445F5B8D678"},
		{name: "version D", version: 'D', kbpk: "000102030405060708090A0B0C0D0E0F101112131415161718191A1B1C1D1E1F", usage: "K0", alg: 'A', mode: 'B', export: 'E', key: "00112233445566778899AABBCCDDEEFF"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kbpk, _ := hex.DecodeString(tt.kbpk)
			clearKey, _ := hex.DecodeString(tt.key)

			k := NewKey(tt.usage, tt.alg, tt.mode, KeyVersion{Kind: KeyVersionUnused}, tt.export, clearKey)

			out, err := Wrap(k, kbpk, tt.version, nil)
			if err != nil {
				t.Fatalf("Wrap() error = %v", err)
			}

			block, err := Unwrap(out, kbpk)
			if err != nil {
				t.Fatalf("Unwrap() error = %v", err)
			}
			if hex.EncodeToString(block.Key.Data()) != strings.ToLower(tt.key) {
				t.Errorf("Unwrap() key = %x, want %s", block.Key.Data(), tt.key)
			}

			wrongKBPK := append([]byte(nil), kbpk...)
			wrongKBPK[0] ^= 0xFF
			badBlock, err := Unwrap(out, wrongKBPK)
			if err == nil {
				t.Fatal("Unwrap() with wrong kbpk: want error, got nil")
			}
			if badBlock == nil {
				t.Fatal("Unwrap() with wrong kbpk: want non-nil Block, got nil")
			}
			if tErr, ok := err.(*Error); !ok || tErr.Kind != ErrMACVerificationFailed {
				t.Errorf("Unwrap() with wrong kbpk error = %v, want ErrMACVerificationFailed", err)
			}
		})
	}
}

// S5: unwrap without a KBPK succeeds, reporting metadata only.
func TestUnwrapMetadataOnly(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("89E88CF7931444F334BD7547FC3F380C")
	clearKey, _ := hex.DecodeString("EDB380DD340BC2620247D445F5B8D678")
	k := NewKey("P0", 'T', 'E', KeyVersion{Kind: KeyVersionUnused}, 'E', clearKey)

	out, err := Wrap(k, kbpk, 'A', nil)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	block, err := Unwrap(out, nil)
	if err != nil {
		t.Fatalf("Unwrap() without kbpk error = %v", err)
	}
	if block.Key.HasData() {
		t.Error("Unwrap() without kbpk: key data present, want absent")
	}
	if block.Header.Usage != "P0" || block.Header.Algorithm != 'T' || block.Header.ModeOfUse != 'E' {
		t.Errorf("Unwrap() without kbpk: header attributes mismatch: %+v", block.Header)
	}
}

// S6: truncating the emitted block by one character yields a length error on unwrap.
func TestUnwrapRejectsTruncatedBlock(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("89E88CF7931444F334BD7547FC3F380C")
	clearKey, _ := hex.DecodeString("EDB380DD340BC2620247D445F5B8D678")
	k := NewKey("P0", 'T', 'E', KeyVersion{Kind: KeyVersionUnused}, 'E', clearKey)

	out, err := Wrap(k, kbpk, 'A', nil)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	truncated := out[:len(out)-1]
	_, err = Unwrap(truncated, kbpk)
	if err == nil {
		t.Fatal("Unwrap() with truncated block: want error, got nil")
	}
}

// Invariant 1: any single-bit flip in the ciphertext causes MAC_VERIFICATION_FAILED.
func TestUnwrapDetectsCiphertextTamper(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("89E88CF7931444F334BD7547FC3F380C")
	clearKey, _ := hex.DecodeString("EDB380DD340BC2620247D445F5B8D678")
	k := NewKey("P0", 'T', 'E', KeyVersion{Kind: KeyVersionUnused}, 'E', clearKey)

	out, err := Wrap(k, kbpk, 'A', nil)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	tampered := []byte(string(out))
	// flip a character inside the ciphertext region, just past the 16-byte header.
	flipped := tampered[headerLen]
	if flipped == '0' {
		tampered[headerLen] = '1'
	} else {
		tampered[headerLen] = '0'
	}

	block, err := Unwrap(tampered, kbpk)
	if err == nil {
		t.Fatal("Unwrap() of tampered ciphertext: want error, got nil")
	}
	if tErr, ok := err.(*Error); !ok || tErr.Kind != ErrMACVerificationFailed {
		t.Errorf("Unwrap() of tampered ciphertext error = %v, want ErrMACVerificationFailed", err)
	}
	if block.Key.HasData() {
		t.Error("Unwrap() of tampered ciphertext: key data exposed despite MAC failure")
	}
}

// Invariant 4: altering a header character without re-MACing fails verification.
func TestUnwrapDetectsHeaderTamper(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("1D22BF32387C600AD97F9B97A51311AC")
	clearKey, _ := hex.DecodeString("E8BC63E5479455E26577F715D587FE68")
	k := NewKey("B0", 'T', 'X', KeyVersion{Kind: KeyVersionValid, Value: 12}, 'S', clearKey)

	out, err := Wrap(k, kbpk, 'B', nil)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	tampered := []byte(string(out))
	tampered[11] = 'N' // exportability field

	_, err = Unwrap(tampered, kbpk)
	if err == nil {
		t.Fatal("Unwrap() of tampered header: want error, got nil")
	}
}

// Invariant 6: KCV equals the leading bytes of E_K(0) (TDES) or CMAC(K, 0) (AES).
func TestKeyCheckValue(t *testing.T) {
	t.Parallel()

	tdesKey, _ := hex.DecodeString("89E88CF7931444F334BD7547FC3F380C")
	kcv, err := keyCheckValue('T', tdesKey)
	if err != nil {
		t.Fatalf("keyCheckValue() error = %v", err)
	}
	if len(kcv) != kcvLen {
		t.Fatalf("keyCheckValue() length = %d, want %d", len(kcv), kcvLen)
	}

	aesKey, _ := hex.DecodeString("000102030405060708090A0B0C0D0E0F")
	kcv, err = keyCheckValue('A', aesKey)
	if err != nil {
		t.Fatalf("keyCheckValue() error = %v", err)
	}
	if len(kcv) != kcvLen {
		t.Fatalf("keyCheckValue() length = %d, want %d", len(kcv), kcvLen)
	}
}

// Invariant 8: Release zeroizes clear key material.
func TestBlockReleaseZeroizesKey(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("89E88CF7931444F334BD7547FC3F380C")
	clearKey, _ := hex.DecodeString("EDB380DD340BC2620247D445F5B8D678")
	k := NewKey("P0", 'T', 'E', KeyVersion{Kind: KeyVersionUnused}, 'E', clearKey)

	out, err := Wrap(k, kbpk, 'A', nil)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	block, err := Unwrap(out, kbpk)
	if err != nil {
		t.Fatalf("Unwrap() error = %v", err)
	}

	data := block.Key.Data()
	block.Release()
	for _, b := range data {
		if b != 0 {
			t.Fatal("Release() did not zeroize key data")
		}
	}
	if block.Key.HasData() {
		t.Error("Release() left HasData() true")
	}
}

func TestWrapRejectsBadKBPKLength(t *testing.T) {
	t.Parallel()

	clearKey, _ := hex.DecodeString("EDB380DD340BC2620247D445F5B8D678")
	k := NewKey("P0", 'T', 'E', KeyVersion{Kind: KeyVersionUnused}, 'E', clearKey)

	if _, err := Wrap(k, make([]byte, 10), 'A', nil); err == nil {
		t.Error("Wrap() with bad kbpk length: want error, got nil")
	}
}

func TestWrapRejectsInvalidKeyUsage(t *testing.T) {
	t.Parallel()

	kbpk, _ := hex.DecodeString("89E88CF7931444F334BD7547FC3F380C")
	clearKey, _ := hex.DecodeString("EDB380DD340BC2620247D445F5B8D678")
	k := NewKey("ZZ", 'T', 'E', KeyVersion{Kind: KeyVersionUnused}, 'E', clearKey)

	if _, err := Wrap(k, kbpk, 'A', nil); err == nil {
		t.Error("Wrap() with invalid usage: want error, got nil")
	}
}
