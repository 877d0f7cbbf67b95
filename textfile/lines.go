package textfile

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/propmap"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
	"github.com/npillmayer/uax/uax14"
)

// Line is a line of text from a file, without its line terminator.
// No is the 1-based line number.
type Line struct {
	No   int
	Text string
}

func (l Line) String() string {
	return l.Text
}

// Names of the line predicates, in declaration order.
const (
	IsBlank       = "is_blank"
	HasPrefix     = "has_prefix"
	ContainsWord  = "contains_word"
	WidthLessThan = "width_less_than"
)

var setupOnce sync.Once

func setup() {
	setupOnce.Do(func() {
		grapheme.SetupGraphemeClasses()
	})
}

// Predicates returns the line predicates:
//
//	is_blank          bool    line contains nothing but white space
//	has_prefix        string  line starts with the value
//	contains_word     string  one of the line's words equals the value
//	width_less_than   int     display width of the line is less than the value
//
// Display widths are measured for the given context; a nil context selects
// uax11.LatinContext.
func Predicates(context *uax11.Context) []propmap.Predicate[Line] {
	if context == nil {
		context = uax11.LatinContext
	}
	return []propmap.Predicate[Line]{
		propmap.Typed(IsBlank, func(l Line, v bool) bool {
			return (strings.TrimSpace(l.Text) == "") == v
		}),
		propmap.Typed(HasPrefix, func(l Line, v string) bool {
			return strings.HasPrefix(l.Text, v)
		}),
		propmap.Typed(ContainsWord, func(l Line, v string) bool {
			for _, w := range Words(l.Text) {
				if w == v {
					return true
				}
			}
			return false
		}),
		propmap.Typed(WidthLessThan, func(l Line, v int) bool {
			return Width(l.Text, context) < v
		}),
	}
}

// NewMap creates a property map for lines, using the line predicates.
func NewMap(context *uax11.Context) (*propmap.Map[Line], error) {
	return propmap.New(Predicates(context)...)
}

// Words splits a text at line break opportunities and returns the fragments
// stripped of white space and surrounding punctuation. Empty fragments are
// dropped.
func Words(text string) []string {
	setup()
	linewrap := uax14.NewLineWrap()
	segmenter := segment.NewSegmenter(linewrap)
	segmenter.Init(strings.NewReader(text))
	var words []string
	for segmenter.Next() {
		w := strings.TrimFunc(string(segmenter.Bytes()), func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Width returns the display width of a text in fixed-width positions ('en's).
// Empty text has width 0; invalid UTF-8 sequences count as replacement
// characters. A nil context selects uax11.LatinContext.
func Width(text string, context *uax11.Context) int {
	if text == "" {
		return 0
	}
	if context == nil {
		context = uax11.LatinContext
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	setup()
	return uax11.StringWidth(grapheme.StringFromString(text), context)
}
