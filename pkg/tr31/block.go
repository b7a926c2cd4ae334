package tr31

// Block is a parsed key block: the header, the wrapped key (metadata only if unwrapped without
// a KBPK), its optional blocks in wire order, and the outcome of the last operation performed
// on it. Named "Context" in the textual specification this package implements.
type Block struct {
	Header         Header
	Key            Key
	OptionalBlocks []OptionalBlock
	Status         error // nil on full success; non-nil if MAC verification or decryption failed
}

// Version reports the key block version character ('A', 'B', 'C', or 'D').
func (b *Block) Version() byte {
	return b.Header.Version
}

// Release zeroizes the clear key material still attached to this Block. Safe to call more than
// once and on a Block with no key data.
func (b *Block) Release() {
	b.Key.Wipe()
}
