package fix

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Patcher performs line insertions on source files. Every operation reads
// the file fresh from disk and writes the whole buffer back, so a caller
// that re-derives line numbers between fixes never works against stale
// offsets. Exactly one insertion happens per call.
type Patcher struct{}

// NewPatcher constructs a Patcher.
func NewPatcher() *Patcher {
	return &Patcher{}
}

// Lines returns the file's lines for anchor location and description
// synthesis. The returned slice reflects the file at call time; Insert
// re-reads before mutating.
func (p *Patcher) Lines(path string) ([]string, error) {
	buf, err := loadBuffer(path)
	if err != nil {
		return nil, err
	}
	return buf.lines, nil
}

// Insert places content as new lines immediately before the anchor index,
// shifting the anchor line and everything below it down, then rewrites the
// file. All content outside the insertion point is preserved byte for byte.
func (p *Patcher) Insert(path string, anchor int, content []string) error {
	buf, err := loadBuffer(path)
	if err != nil {
		return err
	}
	if anchor < 0 || anchor > len(buf.lines) {
		return fmt.Errorf("insert at %d: index out of range (file has %d lines)", anchor, len(buf.lines))
	}

	buf.insert(anchor, content...)

	if err := buf.save(path); err != nil {
		return err
	}
	return nil
}

// sourceBuffer holds one file's lines plus enough shape information to
// rewrite the file without disturbing its trailing-newline convention.
type sourceBuffer struct {
	lines           []string
	trailingNewline bool
	mode            fs.FileMode
}

func loadBuffer(path string) (*sourceBuffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := string(data)
	trailing := strings.HasSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	if trailing {
		lines = lines[:len(lines)-1]
	}

	return &sourceBuffer{
		lines:           lines,
		trailingNewline: trailing,
		mode:            info.Mode().Perm(),
	}, nil
}

func (b *sourceBuffer) insert(at int, content ...string) {
	b.lines = append(b.lines[:at], append(append([]string{}, content...), b.lines[at:]...)...)
}

func (b *sourceBuffer) save(path string) error {
	text := strings.Join(b.lines, "\n")
	if b.trailingNewline {
		text += "\n"
	}
	if err := os.WriteFile(path, []byte(text), b.mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// leadingWhitespace returns the indentation prefix of a line, used to align
// an inserted comment block with its declaration.
func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
