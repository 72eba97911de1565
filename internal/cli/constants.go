package cli

// Output layout.
const (
	// VersionColumnWidth is the width of the version column in listings.
	VersionColumnWidth = 24
	// PlatformColumnWidth is the width of the ostype and arch columns in verbose listings.
	PlatformColumnWidth = 8
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// RemoteListConcurrency bounds the folder listings fetched in parallel.
	RemoteListConcurrency = 4
)
