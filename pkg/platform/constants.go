// Package platform describes the CPU architectures and operating systems a Blender
// bundle can target, and guesses them from release file names.
package platform

// Architecture identifies a CPU architecture. Values match what Python's
// platform.machine() reports inside a Blender bundle.
type Architecture string

const (
	// X64 is the 64-bit x86 architecture.
	X64 Architecture = "x86_64"
	// X32 is the 32-bit x86 architecture.
	X32 Architecture = "x86"
	// AnyArch is the unknown or wildcard architecture.
	AnyArch Architecture = "any"
)

// OSType identifies an operating system. Values match Python's platform.system().
type OSType string

const (
	// Windows is Microsoft Windows.
	Windows OSType = "Windows"
	// Mac is macOS.
	Mac OSType = "Darwin"
	// Linux is any Linux distribution.
	Linux OSType = "Linux"
	// AnyOS is the unknown or wildcard operating system.
	AnyOS OSType = "any"
)

// Architectures returns the concrete architectures in preference order.
func Architectures() []Architecture {
	return []Architecture{X64, X32, AnyArch}
}

// OSTypes returns the concrete operating systems in preference order.
func OSTypes() []OSType {
	return []OSType{Windows, Mac, Linux, AnyOS}
}
