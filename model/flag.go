package model

// Flags represents the command line flags for a release run.
type Flags struct {
	VersionArg  string
	ConfigPath  string
	Repository  string
	SourceDir   string
	DistDir     string
	SkipUpload  bool
	DryRun      bool
	Store       bool
	DBPath      string
	Output      string
	Verbose     bool
	ShowVersion bool
}
