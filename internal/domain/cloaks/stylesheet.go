package cloaks

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"veilpack.dev/pkg/veilpack/internal/codec"
	"veilpack.dev/pkg/veilpack/internal/domain/jsgen"
	m "veilpack.dev/pkg/veilpack/internal/model"
)

// Dead-code statement counts for stylesheet decoders.
const (
	stylesheetDeadMin = 3
	stylesheetDeadMax = 6
)

// StylesheetChain is the payload composition for stylesheet sources.
var StylesheetChain = codec.Chain{codec.Base64Layer{}, codec.Rot13Layer{}, codec.Base64Layer{}}

var cssCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

// NormalizeCSS strips block comments, collapses whitespace runs to one space
// and trims the ends.
func NormalizeCSS(css string) string {
	return strings.Join(strings.Fields(cssCommentRe.ReplaceAllString(css, "")), " ")
}

var stylesheetDecoderTemplate = mustTemplate("stylesheet", `
(function(){
    {%.Dead%}
    {%.Decls%}
    {%.Payload%}
    var {%.Element%}=document.createElement({%.StyleTag%});
    var {%.Head%}=document.head||document.getElementsByTagName({%.HeadTag%})[0];
    {%.Element%}.appendChild(document.createTextNode({%.Runtime.UTF8%}({%.Runtime.Atob%}({%.Runtime.Rot13%}({%.Runtime.Atob%}({%.Name%}))))));
    {%.Head%}.appendChild({%.Element%});
})();
`)

type stylesheetDecoderData struct {
	Dead     string
	Decls    string
	Payload  string
	Name     string
	Element  string
	Head     string
	StyleTag string
	HeadTag  string
	Runtime  jsgen.Runtime
}

var styleScriptTemplate = mustTemplate("style-script", "<script>{%.Bootstrap%}</script>\n")

// GenerateStylesheet turns a stylesheet into a script element that decodes
// the normalized rules and appends them to the document head.
func GenerateStylesheet(rng *rand.Rand, source string) (m.Artifact, error) {
	css := NormalizeCSS(source)

	namer := jsgen.NewNamer(rng)
	rt := jsgen.NewRuntime(namer, jsgen.ScriptRetryDelay)
	dead := jsgen.DeadCode(namer, rng, stylesheetDeadMin+rng.IntN(stylesheetDeadMax-stylesheetDeadMin+1))
	name := namer.Fresh()

	decls, err := rt.Declare(jsgen.RoutineBase64, jsgen.RoutineRot13, jsgen.RoutineUTF8)
	if err != nil {
		return m.Artifact{}, err
	}

	decoder, err := render(stylesheetDecoderTemplate, stylesheetDecoderData{
		Dead:     dead,
		Decls:    decls,
		Payload:  declarePayload(name, StylesheetChain.EncodeString(css)),
		Name:     name,
		Element:  namer.Fresh(),
		Head:     namer.Fresh(),
		StyleTag: jsgen.Literal(rng, rt.Atob, "style"),
		HeadTag:  jsgen.Literal(rng, rt.Atob, "head"),
		Runtime:  rt,
	})
	if err != nil {
		return m.Artifact{}, err
	}

	inner, err := wrap(rng, decoder, jsgen.ScriptRetryDelay)
	if err != nil {
		return m.Artifact{}, err
	}

	page, err := render(styleScriptTemplate, struct{ Bootstrap string }{inner})
	if err != nil {
		return m.Artifact{}, err
	}

	return m.Artifact{
		Class:    m.ClassStylesheet,
		Text:     page,
		Checksum: codec.Checksum(css),
		Chains:   []string{StylesheetChain.String(), WrapChain.String()},
	}, nil
}

// RevealStylesheet recovers the normalized stylesheet of a GenerateStylesheet
// artifact. Comments and whitespace removed by NormalizeCSS are not restored.
func RevealStylesheet(artifact string) (string, error) {
	decoder, err := unwrap(artifact, WrapChain)
	if err != nil {
		return "", err
	}

	payload, err := extractPayload(decoder)
	if err != nil {
		return "", err
	}

	return decodeUTF8(StylesheetChain.Decode([]byte(payload))), nil
}
