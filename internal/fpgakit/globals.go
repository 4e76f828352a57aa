package fpgakit

import (
	"runtime"

	"github.com/gookit/color"
)

// Known package names. A new package gets a constant and a descriptor
// in packageTable before anything else references it.
const (
	PkgOssCadSuite = "oss-cad-suite"
	PkgGtkwave     = "gtkwave"
	PkgIcoprog     = "icoprog"
	PkgSystem      = "system"
)

// binFolder is the subfolder holding a package's executables.
const binFolder = "bin"

// primaryPackage takes search-path priority over every other package.
const primaryPackage = PkgOssCadSuite

// pkgDescriptor is the static description of a managed package.
type pkgDescriptor struct {
	// Folder is the directory name under <pkg home>/packages.
	Folder string
	// ExternallyManagedOnNonWindows marks packages that the OS package
	// manager provides everywhere except Windows. Such a package is
	// always considered satisfied on non-Windows platforms.
	ExternallyManagedOnNonWindows bool
}

var packageTable = map[string]pkgDescriptor{
	PkgOssCadSuite: {Folder: "tools-" + PkgOssCadSuite},
	PkgGtkwave:     {Folder: "tool-" + PkgGtkwave, ExternallyManagedOnNonWindows: true},
	PkgIcoprog:     {Folder: "tool-" + PkgIcoprog},
	PkgSystem:      {Folder: "tools-" + PkgSystem},
}

// distPackages maps each distributed package to the semantic version
// range a local install must satisfy.
var distPackages = map[string]string{
	PkgOssCadSuite: ">=0.0.9",
	PkgGtkwave:     ">=3.3.0",
	PkgIcoprog:     ">=1.0.0",
	PkgSystem:      ">=1.1.0",
}

// Global variables
var (
	Debug      bool
	ConfigFile = "/etc/fpgakit.conf"
	mirrorURL  string
	osName     = runtime.GOOS
	version    = "dev"     // overridden at build time
	buildDate  = "unknown" // overridden at build time
)

// color helpers
var (
	colInfo    = color.Info // style provided by gookit/color
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.HEX("#1976D2")
	colArrow   = color.HEX("#FFEB3B")
	colNote    = color.Tag("notice")
)
