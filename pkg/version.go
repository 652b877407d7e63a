package screenload

var (
	// Version of the screenload.
	Version = "v0.1.0"

	// Build timestamp, set by the linker.
	Build = "n/a"
)
