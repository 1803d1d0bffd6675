package charset

import (
	"bytes"
	"log/slog"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	textunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	metricsNamespace = "streamutil"

	module = "charset"

	// recodeBufSize is the output chunk size of the conversion loop.
	recodeBufSize = 1024
)

// Native is a Recoder backed by the x/text encoding registry.
type Native struct {
	logger  *slog.Logger
	recodes *prometheus.CounterVec
}

// NewNative creates and returns a new Native. reg may be nil to skip
// metrics registration.
func NewNative(logger *slog.Logger, reg prometheus.Registerer) *Native {
	return &Native{
		logger: logger.With("module", module),
		recodes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "charset_recode_total",
			Help:      "Recode calls by result.",
		}, []string{"result"}),
	}
}

// Recode converts text between the named encodings. An encoding name
// that cannot be resolved falls back to the locale encoding; if even
// that fails the error is logged and text is returned unchanged rather
// than lost. Byte sequences the conversion cannot handle are replaced
// one input byte at a time according to mode, so a conversion never
// aborts mid-stream.
func (n *Native) Recode(text, from, to string, mode Mode) string {
	if text == "" {
		return ""
	}

	src, serr := lookupEncoding(from)
	dst, derr := lookupEncoding(to)
	if serr != nil {
		src, serr = lookupEncoding(LocaleEncoding())
	}
	if derr != nil {
		dst, derr = lookupEncoding(LocaleEncoding())
	}
	if serr != nil || derr != nil {
		err := serr
		if err == nil {
			err = derr
		}
		n.logger.Error("no conversion available, keeping text as-is",
			"from", from, "to", to, "err", err)
		n.recodes.WithLabelValues("fallback").Inc()
		return text
	}

	// Decode to UTF-8 first; x/text decoders substitute U+FFFD for
	// malformed input themselves and never fail outright. The stages
	// run separately because a chained transformer buffers internally
	// and its consumed-byte count can run ahead of the committed
	// output, which would break the substitution arithmetic below.
	u := pump(src.NewDecoder(), []byte(text), mode)
	if mode == ModeTranslit {
		strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		u = pump(strip, []byte(u), mode)
	}
	out := pump(dst.NewEncoder(), []byte(u), mode)

	n.recodes.WithLabelValues("ok").Inc()
	return out
}

// pump runs input through t in recodeBufSize output chunks accumulated
// into a growable buffer. A transform failure not caused by a short
// buffer substitutes one '?' (or nothing under ModeIgnore) for exactly
// one input byte and continues, so a conversion never aborts
// mid-stream.
func pump(t transform.Transformer, input []byte, mode Mode) string {
	var out bytes.Buffer
	buf := make([]byte, recodeBufSize)
	for len(input) > 0 {
		nDst, nSrc, err := t.Transform(buf, input, true)
		out.Write(buf[:nDst])
		input = input[nSrc:]
		switch err {
		case nil, transform.ErrShortDst:
			// a full output buffer is not a failure, drain and continue
		default:
			if len(input) > 0 {
				if mode != ModeIgnore {
					out.WriteByte('?')
				}
				input = input[1:]
			}
			t.Reset()
		}
	}
	return out.String()
}

// lookupEncoding resolves an encoding name through the IANA registry.
// Empty and locale-style names resolve to the environment's codeset,
// and iconv-style //TRANSLIT or //IGNORE suffixes are stripped (mode
// selection is a Mode here, not part of the name).
func lookupEncoding(name string) (encoding.Encoding, error) {
	if i := strings.Index(name, "//"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	switch strings.ToUpper(name) {
	case "", "CHAR", "LOCALE":
		name = LocaleEncoding()
	}
	switch strings.ToUpper(name) {
	case "", "UTF-8", "UTF8":
		return textunicode.UTF8, nil
	}

	e, err := ianaindex.IANA.Encoding(name)
	if err == nil && e != nil {
		return e, nil
	}
	if e, merr := ianaindex.MIME.Encoding(name); merr == nil && e != nil {
		return e, nil
	}
	if err == nil {
		err = errors.Errorf("unsupported encoding %q", name)
	}
	return nil, err
}
