package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const compactTimestamp = "20060102150405.000"

// CreateTarball generates an archive filename and compresses the report
// directory into an xz tar archive inside outputDir. It returns the path
// of the archive.
func CreateTarball(ctx context.Context, sourceDir, outputDir string) (string, error) {
	archiveTimestamp := strings.ReplaceAll(time.Now().Format(compactTimestamp), ".", "")
	archiveName := "hostdiag-" + archiveTimestamp + ".tar.xz"
	archivePath := filepath.Join(filepath.Clean(outputDir), archiveName)

	cmd := exec.CommandContext(ctx, "tar", "--create", "--xz",
		"--file", archivePath, "--directory", filepath.Clean(sourceDir), ".")
	stdoutStderr, err := cmd.CombinedOutput()
	if err != nil {
		slog.Debug("tar command failed", "output", string(stdoutStderr))
		return "", fmt.Errorf("failed to create archive: %v", err)
	}
	if len(stdoutStderr) > 0 {
		slog.Info("tar command", "output", string(stdoutStderr))
	}
	return archivePath, nil
}
