// Package cloaks builds the self-decoding artifacts for each text asset class
// and reverses them.
package cloaks

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/encoding/unicode"

	"veilpack.dev/pkg/veilpack/internal/codec"
	"veilpack.dev/pkg/veilpack/internal/domain/jsgen"
	m "veilpack.dev/pkg/veilpack/internal/model"
)

var (
	// ErrPayloadNotFound is returned when an artifact holds no payload literal.
	ErrPayloadNotFound = errors.New("payload not found")
	// ErrAmbiguousPayload is returned when an artifact holds more than one
	// payload literal at the same level.
	ErrAmbiguousPayload = errors.New("more than one payload")
)

// Generator builds the artifact for one asset class.
type Generator func(rng *rand.Rand, text string) (m.Artifact, error)

// Revealer recovers the text an artifact was built from.
type Revealer func(artifact string) (string, error)

// WrapChain is the rotate+encode layer placed around decoder blocks.
var WrapChain = codec.Chain{codec.Rot13Layer{}, codec.Base64Layer{}}

// BootstrapChain is the single encode layer of the outermost bootstraps.
var BootstrapChain = codec.Chain{codec.Base64Layer{}}

const b64Class = `[A-Za-z0-9+/=]`

var (
	payloadRe      = regexp.MustCompile(`var ` + jsgen.IdentPattern + `='(` + b64Class + `*)';`)
	keyedPayloadRe = regexp.MustCompile(`var ` + jsgen.IdentPattern + `=(\d{1,3});var ` + jsgen.IdentPattern + `='(` + b64Class + `*)';`)
	chunkListRe    = regexp.MustCompile(`var ` + jsgen.IdentPattern + `=\[((?:'` + b64Class + `*',?)*)\];`)
	chunkItemRe    = regexp.MustCompile(`'(` + b64Class + `*)'`)
)

// declarePayload renders the single payload assignment of a block.
func declarePayload(name, payload string) string {
	return "var " + name + "=" + jsgen.QuoteJS(payload) + ";"
}

// extractPayload returns the only payload literal of text.
func extractPayload(text string) (string, error) {
	matches := payloadRe.FindAllStringSubmatch(text, -1)

	switch len(matches) {
	case 0:
		return "", ErrPayloadNotFound
	case 1:
		return matches[0][1], nil
	default:
		return "", fmt.Errorf("%w: found %d", ErrAmbiguousPayload, len(matches))
	}
}

// extractKeyedPayload returns the XOR key and the payload declared right
// after it.
func extractKeyedPayload(text string) (byte, string, error) {
	matches := keyedPayloadRe.FindAllStringSubmatch(text, -1)

	switch len(matches) {
	case 0:
		return 0, "", ErrPayloadNotFound
	case 1:
	default:
		return 0, "", fmt.Errorf("%w: found %d", ErrAmbiguousPayload, len(matches))
	}

	key, err := strconv.Atoi(matches[0][1])
	if err != nil || key < 1 || key > 255 {
		return 0, "", fmt.Errorf("%w: bad key %q", ErrPayloadNotFound, matches[0][1])
	}

	return byte(key), matches[0][2], nil
}

// extractChunks returns the payload list literal of text.
func extractChunks(text string) ([]string, error) {
	matches := chunkListRe.FindAllStringSubmatch(text, -1)

	switch len(matches) {
	case 0:
		return nil, ErrPayloadNotFound
	case 1:
	default:
		return nil, fmt.Errorf("%w: found %d", ErrAmbiguousPayload, len(matches))
	}

	items := chunkItemRe.FindAllStringSubmatch(matches[0][1], -1)

	chunks := make([]string, len(items))
	for i, item := range items {
		chunks[i] = item[1]
	}

	return chunks, nil
}

// unwrap strips one bootstrap level: it decodes the only payload of text
// through chain and re-reads the bytes as UTF-8, the way emitted code does.
func unwrap(text string, chain codec.Chain) (string, error) {
	payload, err := extractPayload(text)
	if err != nil {
		return "", err
	}

	return decodeUTF8(chain.Decode([]byte(payload))), nil
}

// decodeUTF8 reads data as UTF-8, replacing each invalid byte with U+FFFD.
func decodeUTF8(data []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}

	return string(out)
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Delims("{%", "%}").Parse(text))
}

func render(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}

	return b.String(), nil
}

// bootstrapTemplate is the minimal outer snippet: decode one payload, read it
// as UTF-8 and evaluate it.
var bootstrapTemplate = mustTemplate("bootstrap", `
(function(){
    {%.Payload%}
    {%.Decls%}
    var {%.Exec%}=function(_){(0,eval)(_);};
    {%.Exec%}({%.Runtime.UTF8%}({%.Runtime.Atob%}({%.Name%})));
})();
`)

type bootstrapData struct {
	Payload string
	Decls   string
	Exec    string
	Name    string
	Runtime jsgen.Runtime
}

// bootstrap wraps code in BootstrapChain and returns the outermost snippet.
func bootstrap(rng *rand.Rand, code string) (string, error) {
	namer := jsgen.NewNamer(rng)
	rt := jsgen.NewRuntime(namer, jsgen.BootstrapRetryDelay)
	name := namer.Fresh()

	decls, err := rt.Declare(jsgen.RoutineBase64, jsgen.RoutineUTF8)
	if err != nil {
		return "", err
	}

	return render(bootstrapTemplate, bootstrapData{
		Payload: declarePayload(name, BootstrapChain.EncodeString(code)),
		Decls:   decls,
		Exec:    namer.Fresh(),
		Name:    name,
		Runtime: rt,
	})
}

// wrapTemplate evaluates a WrapChain payload with the retrying evaluator.
var wrapTemplate = mustTemplate("wrap", `
(function(){
    {%.Payload%}
    {%.Decls%}
    {%.Runtime.Eval%}({%.Runtime.Rot13%}({%.Runtime.UTF8%}({%.Runtime.Atob%}({%.Name%}))));
})();
`)

type wrapData struct {
	Payload string
	Decls   string
	Name    string
	Runtime jsgen.Runtime
}

// wrap encodes code with WrapChain inside a self-evaluating block.
func wrap(rng *rand.Rand, code string, delay int) (string, error) {
	namer := jsgen.NewNamer(rng)
	rt := jsgen.NewRuntime(namer, delay)
	name := namer.Fresh()

	decls, err := rt.Declare(jsgen.RoutineBase64, jsgen.RoutineRot13, jsgen.RoutineUTF8, jsgen.RoutineEval)
	if err != nil {
		return "", err
	}

	return render(wrapTemplate, wrapData{
		Payload: declarePayload(name, WrapChain.EncodeString(code)),
		Decls:   decls,
		Name:    name,
		Runtime: rt,
	})
}
