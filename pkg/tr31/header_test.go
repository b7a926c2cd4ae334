package tr31

import "testing"

func TestHeaderMarshalParseRoundTrip(t *testing.T) {
	t.Parallel()

	h := Header{
		Version:       'D',
		Length:        128,
		Usage:         "K0",
		Algorithm:     'A',
		ModeOfUse:     'B',
		KeyVersion:    KeyVersion{Kind: KeyVersionValid, Value: 12},
		Exportability: 'E',
		OptBlockCount: 0,
	}

	raw, err := h.marshal()
	if err != nil {
		t.Fatalf("marshal() error = %v", err)
	}
	if len(raw) != headerLen {
		t.Fatalf("marshal() length = %d, want %d", len(raw), headerLen)
	}

	got, err := parseHeader(raw)
	if err != nil {
		t.Fatalf("parseHeader() error = %v", err)
	}
	if got != h {
		t.Errorf("parseHeader() = %+v, want %+v", got, h)
	}
}

func TestParseHeaderS1Prefix(t *testing.T) {
	t.Parallel()

	h, err := parseHeader([]byte("A0072P0TE00E0000"))
	if err != nil {
		t.Fatalf("parseHeader() error = %v", err)
	}

	if h.Version != 'A' || h.Length != 72 || h.Usage != "P0" || h.Algorithm != 'T' ||
		h.ModeOfUse != 'E' || h.Exportability != 'E' || h.OptBlockCount != 0 {
		t.Errorf("parseHeader() = %+v, unexpected fields", h)
	}
	if h.KeyVersion.Kind != KeyVersionUnused {
		t.Errorf("parseHeader() key version kind = %v, want unused", h.KeyVersion.Kind)
	}
}

func TestParseHeaderRejectsBadReserved(t *testing.T) {
	t.Parallel()

	if _, err := parseHeader([]byte("A0072P0TE00E0001")); err == nil {
		t.Error("parseHeader() with non-00 reserved field: want error, got nil")
	}
}

func TestParseHeaderRejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	if _, err := parseHeader([]byte("Z0072P0TE00E0000")); err == nil {
		t.Error("parseHeader() with unknown version: want error, got nil")
	}
}

func TestParseHeaderRejectsTruncated(t *testing.T) {
	t.Parallel()

	if _, err := parseHeader([]byte("A0072P0TE00E00")); err == nil {
		t.Error("parseHeader() with truncated header: want error, got nil")
	}
}
