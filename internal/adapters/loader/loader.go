// Package loader reads per-frame score files written by the frame selection
// pipeline.
//
// Each non-blank line holds at least four columns:
//
//	frame_number source frame_name score [ignored...]
//
// There is no header row.
package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/framerank/internal/domain/model"
)

// Column layout of a score line.
const (
	colFrameNumber = iota
	colSource
	colFrameName
	colScore
	minColumns
)

// Line buffer sizes. Trailing columns are ignored but still have to fit in a
// single scanner token.
const (
	initialLineSize = 64 << 10
	MaxLineSize     = 16 << 20
)

// Loader parses score sources into sequences.
type Loader struct {
	delimiter string
}

// New creates a Loader with configuration options.
func New(opts ...Option) *Loader {
	l := &Loader{delimiter: " "}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Parse reads every record from r. name is only used in error messages.
func (l *Loader) Parse(ctx context.Context, name string, r io.Reader) (model.Sequence, error) {
	var seq model.Sequence
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineSize), MaxLineSize)
	line := 0
	for sc.Scan() {
		line++
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		rec, err := l.parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		seq = append(seq, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: read: %w", name, err)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptySource)
	}
	return seq, nil
}

func (l *Loader) split(text string) []string {
	if l.delimiter == " " {
		return strings.Fields(text)
	}
	cols := strings.Split(text, l.delimiter)
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

func (l *Loader) parseLine(text string) (model.Record, error) {
	cols := l.split(text)
	if len(cols) < minColumns {
		return model.Record{}, fmt.Errorf("%w: want at least %d columns, got %d", ErrMalformedRecord, minColumns, len(cols))
	}
	frame, err := strconv.Atoi(cols[colFrameNumber])
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: frame number %q", ErrMalformedRecord, cols[colFrameNumber])
	}
	score, err := strconv.Atoi(cols[colScore])
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: score %q", ErrMalformedRecord, cols[colScore])
	}
	if cols[colFrameName] == "" {
		return model.Record{}, fmt.Errorf("%w: empty frame name", ErrMalformedRecord)
	}
	return model.Record{
		FrameNumber: frame,
		Source:      cols[colSource],
		FrameName:   cols[colFrameName],
		Score:       score,
	}, nil
}

// LoadFile opens and parses the score file at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (model.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open score file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return l.Parse(ctx, path, f)
}

// ListSources returns the regular files in dir in name order. At least two are
// required since the listing feeds a comparison.
func ListSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list score files: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	if len(paths) < 2 {
		return nil, fmt.Errorf("%s: found %d file(s): %w", dir, len(paths), ErrNotEnoughFiles)
	}
	return paths, nil
}
