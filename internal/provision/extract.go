package provision

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Extractor unpacks a release archive into a directory. Both variants
// honor the same observable contract: the directory tree mirrors the
// archive entry paths, and the tool's runnable entry carries executable
// permission bits afterwards on non-Windows hosts regardless of the
// archive's stored permissions.
type Extractor interface {
	Extract(archivePath, destDir string) error
}

// NativeArchiveReader extracts zip archives in-process.
type NativeArchiveReader struct{}

// NewNativeArchiveReader creates the in-process extractor.
func NewNativeArchiveReader() *NativeArchiveReader {
	return &NativeArchiveReader{}
}

// Extract unpacks the archive into destDir.
func (e *NativeArchiveReader) Extract(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return &ExtractionError{Archive: archivePath, Err: fmt.Errorf("open archive: %w", err)}
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &ExtractionError{Archive: archivePath, Err: fmt.Errorf("create dest dir: %w", err)}
	}

	for _, file := range reader.File {
		if err := e.extractEntry(file, destDir); err != nil {
			return &ExtractionError{Archive: archivePath, Err: err}
		}
	}

	if err := markRunnable(destDir); err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}

	return nil
}

func (e *NativeArchiveReader) extractEntry(file *zip.File, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(file.Name))

	// Path traversal guard.
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal file path: %s", file.Name)
	}

	if file.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", target, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	contents, err := file.Open()
	if err != nil {
		outFile.Close()
		return fmt.Errorf("open entry %s: %w", file.Name, err)
	}

	if _, err := io.Copy(outFile, contents); err != nil {
		contents.Close()
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}

	contents.Close()
	return outFile.Close()
}

// ExternalUtilityDelegate extracts by shelling out to a host-provided
// unzip utility. Selected at configuration time, not probed per call.
type ExternalUtilityDelegate struct {
	utility string
}

// NewExternalUtilityDelegate creates the shelling-out extractor.
func NewExternalUtilityDelegate() *ExternalUtilityDelegate {
	return &ExternalUtilityDelegate{utility: "unzip"}
}

// Extract unpacks the archive into destDir via the external utility.
func (e *ExternalUtilityDelegate) Extract(archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &ExtractionError{Archive: archivePath, Err: fmt.Errorf("create dest dir: %w", err)}
	}

	cmd := exec.Command(e.utility, "-o", archivePath, "-d", destDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &ExtractionError{
			Archive: archivePath,
			Err:     fmt.Errorf("%s failed: %w: %s", e.utility, err, strings.TrimSpace(string(out))),
		}
	}

	if err := markRunnable(destDir); err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}

	return nil
}

// markRunnable sets executable permission bits on the tool's runnable
// entry when extraction produced one. Windows has no permission bits to
// set.
func markRunnable(destDir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	path := filepath.Join(destDir, BinaryName())
	if _, err := os.Stat(path); err != nil {
		// An archive without the runnable entry is caught after extraction.
		return nil
	}

	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
