package tr31

// libraryVersion is the package's own semantic version, independent of the TR-31 wire-format
// version character exchanged in key blocks.
const libraryVersion = "0.1.0"

// LibraryVersion returns the package's semantic version string.
func LibraryVersion() string {
	return libraryVersion
}
