package textfile

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/guiguan/caster"
	"github.com/npillmayer/propmap"
)

// Some constants for prefetch defaults
const (
	defaultPrefetch = 256
	maxPrefetch     = 65536
	progressEvery   = 1024
)

// Progress is broadcast to subscribers of a Loader while loading a file.
// The last message for a file has Done set; Err is the reason loading
// stopped, if it stopped early.
type Progress struct {
	File  string
	Lines int
	Done  bool
	Err   error
}

// Loader loads text files into property maps of lines.
type Loader struct {
	prefetch int
	cast     *caster.Caster // broadcaster for progress messages
}

// NewLoader creates a loader. prefetch is the number of lines read ahead of
// insertion; 0 selects a default.
func NewLoader(prefetch int) *Loader {
	if prefetch <= 0 || prefetch > maxPrefetch {
		prefetch = defaultPrefetch
	}
	return &Loader{
		prefetch: prefetch,
		cast:     caster.New(nil), // we will broadcast messages when lines are loaded
	}
}

// Subscribe returns a channel receiving Progress messages. capacity is the
// buffer size of the channel; slow subscribers hold up loading.
func (ld *Loader) Subscribe(capacity uint) (<-chan interface{}, bool) {
	return ld.cast.Sub(context.Background(), capacity)
}

// Close stops broadcasting progress and closes subscriber channels.
func (ld *Loader) Close() {
	ld.cast.Close()
}

// Load reads a file, which must be a text file, and inserts every line into m.
// It returns the number of lines inserted.
//
// Reading happens on a separate goroutine, but lines are inserted on the
// calling goroutine; m is not accessed after Load returns.
func (ld *Loader) Load(name string, m *propmap.Map[Line]) (int, error) {
	if m == nil {
		return 0, propmap.ErrIllegalArguments
	}
	file, err := openFile(name)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lines, errc := readLines(ctx, file, ld.prefetch)
	count := 0
	for text := range lines {
		count++
		if _, err = m.Insert(Line{No: count, Text: text}); err != nil {
			break
		}
		if count%progressEvery == 0 {
			ld.cast.Pub(Progress{File: name, Lines: count})
		}
	}
	if err == nil {
		err = <-errc
	}
	if err != nil {
		err = fmt.Errorf("textfile: loading %s stopped at line %d: %w", name, count, err)
		tracer().Errorf("%v", err)
	}
	ld.cast.Pub(Progress{File: name, Lines: count, Done: true, Err: err})
	tracer().Debugf("loaded %d lines from %s", count, name)
	return count, err
}

// openFile opens an OS file, checking for error conditions.
func openFile(name string) (*os.File, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("textfile: %s is not a regular file", name)
	}
	return os.Open(name) // just open for read access
}

// readLines starts a goroutine reading lines from file into a bounded channel.
// The line channel is closed at EOF, on a read error, or when ctx is canceled.
// The read error (or nil) is delivered on the error channel afterwards.
func readLines(ctx context.Context, file *os.File, prefetch int) (<-chan string, <-chan error) {
	lines := make(chan string, prefetch)
	errc := make(chan error, 1)
	go func() {
		defer file.Close()
		defer close(errc)
		defer close(lines)
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
