package console

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/npillmayer/propmap"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

// Config configures console output.
type Config struct {
	LineWidth int            // maximum width of output lines in 'en's
	Colors    bool           // colorize predicates, values and counts
	Context   *uax11.Context // context for measuring display widths
}

// Palette maps parts of the output to colors.
type Palette struct {
	Predicate *color.Color
	Value     *color.Color
	Count     *color.Color
}

// DefaultPalette is used for colored output.
var DefaultPalette = Palette{
	Predicate: color.New(color.FgBlue),
	Value:     color.New(color.FgRed),
	Count:     color.New(color.Faint),
}

const indentWidth = 3

var setupOnce sync.Once

// Print outputs the partition tree of m to stdout.
//
// If parameter config is nil, a heuristic will create a config from the
// current terminal's properties.
func Print[E any](m *propmap.Map[E], config *Config) error {
	if config == nil {
		config = ConfigFromTerminal()
	}
	return Fprint(os.Stdout, m, config)
}

// Fprint outputs the partition tree of m to w. A nil config results in plain
// output of 80 'en's per line.
func Fprint[E any](w io.Writer, m *propmap.Map[E], config *Config) error {
	if m == nil {
		return propmap.ErrIllegalArguments
	}
	cfg := Config{LineWidth: 80}
	if config != nil {
		cfg = *config
	}
	if cfg.Context == nil {
		cfg.Context = uax11.LatinContext
	}
	config = &cfg
	var bf bytes.Buffer
	err := m.Each(func(part propmap.PartitionInfo, depth int) error {
		indent := strings.Repeat(" ", depth*indentWidth)
		bf.WriteString(indent)
		label := part.Label()
		if part.IsRoot() {
			styled(&bf, label, nil, config)
		} else {
			styled(&bf, part.Predicate, DefaultPalette.Predicate, config)
			bf.WriteString("=")
			styled(&bf, fmt.Sprintf("%v", part.Value), DefaultPalette.Value, config)
		}
		count := fmt.Sprintf(" (%d)", len(part.IDs))
		styled(&bf, count, DefaultPalette.Count, config)
		used := width(indent, config) + width(label, config) + width(count, config)
		if rest := config.LineWidth - used - 2; rest > 0 && len(part.IDs) > 0 {
			bf.WriteString("  ")
			bf.WriteString(truncate(preview(m, part.IDs, rest), rest, config))
		}
		bf.WriteByte('\n')
		return nil
	})
	if err != nil {
		return err
	}
	_, err = w.Write(bf.Bytes())
	return err
}

func styled(w io.Writer, s string, c *color.Color, config *Config) {
	if c != nil && config.Colors {
		c.Fprint(w, s)
		return
	}
	io.WriteString(w, s)
}

// preview formats elements of a partition until at least maxw bytes have
// been produced.
func preview[E any](m *propmap.Map[E], ids []int, maxw int) string {
	var b strings.Builder
	for i, id := range ids {
		if b.Len() > maxw {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		e, _ := m.At(id)
		s := fmt.Sprintf("%v", e)
		b.WriteString(s)
	}
	return b.String()
}

// width measures s in fixed-width positions. Invalid UTF-8 sequences are
// measured as replacement characters.
func width(s string, config *Config) int {
	if s == "" {
		return 0
	}
	setupOnce.Do(func() { grapheme.SetupGraphemeClasses() })
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return uax11.StringWidth(grapheme.StringFromString(s), config.Context)
}

// truncate cuts s to a display width of at most w, marking the cut with an
// ellipsis.
func truncate(s string, w int, config *Config) string {
	if width(s, config) <= w {
		return s
	}
	total := 0
	for i, r := range s {
		rw := width(string(r), config)
		if total+rw > w-1 {
			return s[:i] + "…"
		}
		total += rw
	}
	return s
}

// --- Config for terminals --------------------------------------------------

// ConfigFromTerminal is a simple helper for creating a Config.
// It checks wether stdout is a terminal, and if so it reads the terminal's width
// and sets the Config.LineWidth parameter accordingly. Colors are switched on
// for terminals only.
func ConfigFromTerminal() *Config {
	config := &Config{Context: uax11.ContextFromEnvironment()}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		config.Colors = true
		w, _, err := term.GetSize(fd)
		if err != nil {
			config.LineWidth = 80
		} else if w > 20 {
			config.LineWidth = w - 1
		} else {
			config.LineWidth = 20
		}
	} else {
		config.LineWidth = 80
	}
	T().P("format", "console").Infof("setting line length to %d en", config.LineWidth)
	return config
}
