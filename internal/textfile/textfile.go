// Package textfile reads and writes line-oriented text files.
package textfile

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/creachadair/atomicfile"

	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
)

// SplitLines splits data into lines without their terminators. Both "\n" and
// "\r\n" end a line; a missing final newline is accepted.
func SplitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

// ReadLines reads the file at path into lines.
func ReadLines(path string) ([]string, error) {
	// #nosec G304 -- path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategoryNotFound, "file not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read file").
			WithContext("path", path).
			Build()
	}
	return SplitLines(data), nil
}

// Join renders lines as newline-terminated text.
func Join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteTo writes lines to w, each followed by a newline.
func WriteTo(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile replaces the file at path with lines. The file is written to a
// temporary name and renamed into place, so readers never see a partial file.
func WriteFile(path string, lines []string, perm os.FileMode) error {
	out, err := atomicfile.New(path, perm)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output file").
			WithContext("path", path).
			Build()
	}
	defer out.Cancel()

	if err := WriteTo(out, lines); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output file").
			WithContext("path", path).
			Build()
	}
	if err := out.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to commit output file").
			WithContext("path", path).
			Build()
	}
	return nil
}

// FileMode returns the permission bits of an existing file, or fallback when
// the file does not exist.
func FileMode(path string, fallback os.FileMode) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return fallback
}
