package plugin

// Command is one requested command execution.
type Command struct {
	// Command is the shell command to run and capture.
	Command string
	// Subdir optionally routes the captured output into a subdirectory
	// of the plugin's command output directory.
	Subdir string
}

// FileTag attaches a classification label to archived files whose source
// path matches Pattern, a regular expression. Tags support downstream
// automated analysis of the archive.
type FileTag struct {
	Pattern string
	Tag     string
}

// Plan is the ordered record of collection requests declared by one
// plugin Setup invocation. It is handed to the archive step for execution
// and is not persisted beyond the report run.
type Plan struct {
	// CopySpecs are glob patterns of paths to copy recursively into the
	// archive.
	CopySpecs []string
	// ForbiddenPaths are glob patterns excluded from collection. They
	// take precedence over any matching copy spec.
	ForbiddenPaths []string
	// FileTags classify archived files.
	FileTags []FileTag
	// Commands are executed and their output captured into the archive.
	Commands []Command
}
