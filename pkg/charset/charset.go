// Package charset converts text between the locale encoding and UTF-8.
//
// Stream metadata arrives in whatever encoding the host environment
// declares, while Icecast wants UTF-8 on the wire; this package moves
// text between the two without ever failing hard. A conversion that
// cannot be performed is logged and the input is returned unchanged.
package charset

// Mode selects how runes the target encoding cannot represent are
// handled.
type Mode int

const (
	// ModeReplace substitutes a literal '?' for every input byte that
	// cannot be converted. This is the default.
	ModeReplace Mode = iota
	// ModeTranslit decomposes the text and strips combining marks
	// before encoding, degrading accented characters to their base
	// form; whatever still fails gets the '?' treatment.
	ModeTranslit
	// ModeIgnore drops unconvertible input.
	ModeIgnore
)

// Recoder transcodes text between two named encodings. The host picks
// an implementation at startup: Native for real transcoding, or
// Passthrough where no conversion is wanted.
type Recoder interface {
	Recode(text, from, to string, mode Mode) string
}

// Passthrough is the identity Recoder.
type Passthrough struct{}

func (Passthrough) Recode(text, _, _ string, _ Mode) string { return text }

// ToUTF8 converts text from the locale encoding to UTF-8.
func ToUTF8(r Recoder, text string, mode Mode) string {
	return r.Recode(text, LocaleEncoding(), "UTF-8", mode)
}

// FromUTF8 converts text from UTF-8 to the locale encoding.
func FromUTF8(r Recoder, text string, mode Mode) string {
	return r.Recode(text, "UTF-8", LocaleEncoding(), mode)
}
