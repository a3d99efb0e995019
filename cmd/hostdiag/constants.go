package main

const (
	ExitCodeOK          = 0  // successful termination
	ExitCodeErr         = 1  // generic error
	ExitCodeUsage       = 64 // command line usage error
	ExitCodeDataErr     = 65 // data format error
	ExitCodeNoInput     = 66 // cannot open input
	ExitCodeUnavailable = 69 // service unavailable
	ExitCodeSoftware    = 70 // internal software error
	ExitCodeOSErr       = 71 // system error (e.g., can't fork)
	ExitCodeCantCreat   = 73 // can't create (user) output file
	ExitCodeIOErr       = 74 // input/output error
	ExitCodeNoPerm      = 77 // permission denied
	ExitCodeConfig      = 78 // configuration error
)

var (
	// Version is the version as described by git.
	Version string

	// ShortName is the executable name.
	ShortName string

	// LongName is the name used for directories and identifiers.
	LongName string
)

func init() {
	if Version == "" {
		Version = "dev"
	}
	if ShortName == "" {
		ShortName = "hostdiag"
	}
	if LongName == "" {
		LongName = "hostdiag"
	}
}
