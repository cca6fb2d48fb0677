package jsgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"veilpack.dev/pkg/veilpack/internal/codec"
)

// LiteralVariant selects how a string literal is rendered as an expression.
type LiteralVariant int

// Available LiteralVariant values.
const (
	LiteralBase64 LiteralVariant = iota
	LiteralCharCodes
	LiteralCharArray
	LiteralSplit
	literalVariantCount
)

// String returns the variant name.
func (v LiteralVariant) String() string {
	switch v {
	case LiteralBase64:
		return "base64"
	case LiteralCharCodes:
		return "charcodes"
	case LiteralCharArray:
		return "chararray"
	case LiteralSplit:
		return "split"
	default:
		return "unknown"
	}
}

// Literal renders s as an expression using a variant picked at random. atob
// names the base64 decoder in scope, normally Runtime.Atob.
func Literal(rng *rand.Rand, atob, s string) string {
	return RenderLiteral(rng, LiteralVariant(rng.IntN(int(literalVariantCount))), atob, s)
}

// RenderLiteral renders s with the given variant. rng is only consulted by
// LiteralSplit. Non-ASCII text never goes through atob since base64 decoding
// yields Latin-1; character codes are used instead.
func RenderLiteral(rng *rand.Rand, variant LiteralVariant, atob, s string) string {
	if s == "" {
		return "''"
	}

	switch variant {
	case LiteralBase64:
		if !isASCII(s) {
			return charCodes(s)
		}

		return atob + "(" + QuoteJS(codec.EncodeBase64([]byte(s))) + ")"
	case LiteralCharCodes:
		return charCodes(s)
	case LiteralCharArray:
		parts := make([]string, 0, len(s))
		for _, r := range s {
			parts = append(parts, QuoteJS(string(r)))
		}

		return "[" + strings.Join(parts, ",") + "].join('')"
	case LiteralSplit:
		return splitLiteral(rng, atob, s)
	default:
		return QuoteJS(s)
	}
}

func splitLiteral(rng *rand.Rand, atob, s string) string {
	if utf8.RuneCountInString(s) <= 3 {
		return QuoteJS(s)
	}

	pieces, err := codec.SplitChunks(s, 2, 5, rng)
	if err != nil {
		return QuoteJS(s)
	}

	encoded := make([]string, len(pieces))
	for i, p := range pieces {
		variant := LiteralBase64
		if rng.IntN(2) == 1 {
			variant = LiteralCharCodes
		}

		encoded[i] = RenderLiteral(rng, variant, atob, p)
	}

	return strings.Join(encoded, "+")
}

func charCodes(s string) string {
	units := utf16.Encode([]rune(s))

	codes := make([]string, len(units))
	for i, u := range units {
		codes[i] = strconv.Itoa(int(u))
	}

	return "String.fromCharCode(" + strings.Join(codes, ",") + ")"
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}

// QuoteJS returns s as a single-quoted script string literal. '<' is escaped
// so the literal can sit inside an inline script element.
func QuoteJS(s string) string {
	var b strings.Builder

	b.WriteByte('\'')

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '<':
			b.WriteString(`\x3c`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}

			b.WriteRune(r)
		}
	}

	b.WriteByte('\'')

	return b.String()
}
