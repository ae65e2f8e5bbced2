// Package textdiff renders a line-level diff between two versions of a file.
package textdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of change a line represents.
type Op rune

const (
	Equal  Op = ' '
	Delete Op = '-'
	Insert Op = '+'
)

// Line is one line of diff output.
type Line struct {
	Op   Op
	Text string
}

func (l Line) String() string {
	return string(l.Op) + l.Text
}

// Lines computes the line diff turning before into after.
func Lines(before, after []string) []Line {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(join(before), join(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = Delete
		case diffmatchpatch.DiffInsert:
			op = Insert
		}
		for _, text := range split(d.Text) {
			out = append(out, Line{Op: op, Text: text})
		}
	}
	return out
}

// Changed reports whether the diff contains any insertion or deletion.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Write prints the diff between before and after to w, preceded by a header
// naming both sides.
func Write(w io.Writer, name string, before, after []string) error {
	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s (catkin)\n", name, name); err != nil {
		return err
	}
	for _, l := range Lines(before, after) {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return err
		}
	}
	return nil
}

func join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func split(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
