// Package domain contains the obfuscation pipeline and the project compiler.
package domain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"veilpack.dev/pkg/veilpack/internal/domain/cloaks"
	m "veilpack.dev/pkg/veilpack/internal/model"
)

// ErrUnsupportedClass is returned for asset classes that have no cloak.
var ErrUnsupportedClass = errors.New("unsupported asset class")

// Obfuscator turns the text of one asset into its self-decoding artifact.
type Obfuscator interface {
	Obfuscate(ctx context.Context, class m.AssetClass, text string) (m.Artifact, error)
}

// Revealer recovers the text an artifact was built from.
type Revealer interface {
	Reveal(ctx context.Context, class m.AssetClass, artifact string) (string, error)
}

var cloakGenerators = map[m.AssetClass]cloaks.Generator{
	m.ClassScript:     cloaks.GenerateScript,
	m.ClassMarkup:     cloaks.GenerateMarkup,
	m.ClassStylesheet: cloaks.GenerateStylesheet,
}

var cloakRevealers = map[m.AssetClass]cloaks.Revealer{
	m.ClassScript:     cloaks.RevealScript,
	m.ClassMarkup:     cloaks.RevealMarkup,
	m.ClassStylesheet: cloaks.RevealStylesheet,
}

// obfuscator draws every random choice from one generator. It is not safe
// for concurrent use; a build processes files one at a time.
type obfuscator struct {
	rng *rand.Rand
}

// NewObfuscator creates an Obfuscator whose output is fully determined by seed.
func NewObfuscator(seed uint64) Obfuscator {
	return &obfuscator{rng: rand.New(rand.NewPCG(seed, seed^pcgStream))}
}

// pcgStream derives the second PCG word from the seed.
const pcgStream = 0x9e3779b97f4a7c15

func (o *obfuscator) Obfuscate(ctx context.Context, class m.AssetClass, text string) (m.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return m.Artifact{}, err
	}

	gen, ok := cloakGenerators[class]
	if !ok {
		return m.Artifact{}, fmt.Errorf("%w: %s", ErrUnsupportedClass, class)
	}

	art, err := gen(o.rng, text)
	if err != nil {
		return m.Artifact{}, fmt.Errorf("obfuscate %s: %w", class, err)
	}

	return art, nil
}

type revealer struct{}

// NewRevealer creates a Revealer for artifacts produced by any Obfuscator.
func NewRevealer() Revealer {
	return revealer{}
}

func (revealer) Reveal(ctx context.Context, class m.AssetClass, artifact string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rev, ok := cloakRevealers[class]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedClass, class)
	}

	text, err := rev(artifact)
	if err != nil {
		return "", fmt.Errorf("reveal %s: %w", class, err)
	}

	return text, nil
}
