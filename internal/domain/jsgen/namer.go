// Package jsgen generates the script fragments shared by every artifact:
// synthetic identifiers, inert filler statements, literal encodings and the
// inline decoder routines.
package jsgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	// MinNameLength is the shortest identifier a Namer hands out. IdentPattern
	// matches nothing shorter.
	MinNameLength = 8

	// DefaultNameLength is the length of identifiers handed out by Fresh.
	DefaultNameLength = MinNameLength
)

// identRunes holds characters valid at any position of an identifier: '_',
// '$' and the Hiragana letters (Lo/Lm, so ID_Start). Combining marks and the
// unassigned code points of the block are left out.
var identRunes = func() []rune {
	runes := []rune{'_', '$'}
	for r := rune(0x3041); r <= 0x3096; r++ {
		runes = append(runes, r)
	}

	return append(runes, 0x309D, 0x309E)
}()

// IdentPattern matches identifiers produced by a Namer.
var IdentPattern = fmt.Sprintf(`[_$\x{3041}-\x{3096}\x{309D}\x{309E}]{%d,}`, MinNameLength)

// Namer hands out identifiers for a single artifact. It never returns the
// same name twice.
type Namer struct {
	rng  *rand.Rand
	used map[string]struct{}
}

// NewNamer returns a Namer drawing from rng.
func NewNamer(rng *rand.Rand) *Namer {
	return &Namer{rng: rng, used: make(map[string]struct{})}
}

// Fresh returns an unused identifier of DefaultNameLength runes.
func (n *Namer) Fresh() string {
	return n.FreshN(DefaultNameLength)
}

// FreshN returns an unused identifier of max(length, MinNameLength) runes.
// Shorter requests are not an error: they are raised to MinNameLength, so a
// caller asking for 2 gets an 8-rune name.
func (n *Namer) FreshN(length int) string {
	if length < MinNameLength {
		length = MinNameLength
	}

	for {
		var b strings.Builder
		for i := 0; i < length; i++ {
			b.WriteRune(identRunes[n.rng.IntN(len(identRunes))])
		}

		name := b.String()
		if _, taken := n.used[name]; taken {
			continue
		}

		n.used[name] = struct{}{}

		return name
	}
}

// Len returns how many identifiers have been handed out.
func (n *Namer) Len() int {
	return len(n.used)
}
