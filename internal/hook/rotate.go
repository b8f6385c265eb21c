package hook

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	// rotateThreshold is the line count past which the log is trimmed.
	rotateThreshold = 1000
	// rotateKeep is how many recent lines survive a trim.
	rotateKeep = 500
)

// rotate trims the activity log to its most recent rotateKeep lines
// once it exceeds rotateThreshold. Trimmed lines are appended to the
// zstd history archive first, so nothing is lost.
func rotate(logPath, archivePath string) error {
	lines, err := readLines(logPath)
	if err != nil {
		return err
	}
	if len(lines) <= rotateThreshold {
		return nil
	}

	cut := len(lines) - rotateKeep
	if err := archiveLines(archivePath, lines[:cut]); err != nil {
		return err
	}

	// Rewrite via temp file + rename so a concurrent reader never sees
	// a half-written log.
	tmp := logPath + ".tmp"
	content := strings.Join(lines[cut:], "\n") + "\n"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write trimmed log: %w", err)
	}
	if err := os.Rename(tmp, logPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace log: %w", err)
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log: %w", err)
	}
	return lines, nil
}

// archiveLines appends lines as a fresh zstd frame; concatenated
// frames decode as one stream.
func archiveLines(archivePath string, lines []string) error {
	f, err := os.OpenFile(archivePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	encoder, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	content := strings.Join(lines, "\n") + "\n"
	if _, err := encoder.Write([]byte(content)); err != nil {
		encoder.Close()
		return fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return nil
}
