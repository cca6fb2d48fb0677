package cloaks

import (
	"math/rand/v2"
	"strings"

	"veilpack.dev/pkg/veilpack/internal/codec"
	"veilpack.dev/pkg/veilpack/internal/domain/jsgen"
	"veilpack.dev/pkg/veilpack/internal/domain/tamper"
	m "veilpack.dev/pkg/veilpack/internal/model"
)

// Markup chunk bounds, in runes.
const (
	MarkupChunkMin = 100
	MarkupChunkMax = 500
)

var (
	// evenChunkChain encodes chunks at even positions.
	evenChunkChain = codec.Chain{codec.Base64Layer{}}
	// oddChunkChain encodes chunks at odd positions.
	oddChunkChain = codec.Chain{codec.Rot13Layer{}, codec.Base64Layer{}}
)

var markupDecoderTemplate = mustTemplate("markup", `
(function(){
    {%.Decls%}
    var {%.Chunks%}=[{%.List%}];
    var {%.Document%}={%.Chunks%}.map(function({%.Piece%},{%.Index%}){{%.Piece%}={%.Runtime.UTF8%}({%.Runtime.Atob%}({%.Piece%}));return {%.Index%}%2===1?{%.Runtime.Rot13%}({%.Piece%}):{%.Piece%};}).join('');
    var {%.Write%}=function(){try{document.open();document.write({%.Document%});document.close();}catch(_e){setTimeout({%.Write%},{%.Runtime.Delay%});}};
    {%.Write%}();
})();
`)

type markupDecoderData struct {
	Decls    string
	Chunks   string
	List     string
	Index    string
	Piece    string
	Document string
	Write    string
	Runtime  jsgen.Runtime
}

var hostDocumentTemplate = mustTemplate("host", `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title></title>
</head>
<body>
<script>
{%.Bootstrap%}
</script>
</body>
</html>
`)

var hostBootstrapTemplate = mustTemplate("host-bootstrap", `
(function(){
    {%.Payload%}
    {%.Decls%}
    var {%.Run%}=function(){try{(0,eval)({%.Runtime.UTF8%}({%.Runtime.Atob%}({%.Name%})));}catch(_e){setTimeout({%.Run%},{%.Runtime.Delay%});}};
    {%.Run%}();
})();
`)

type hostBootstrapData struct {
	Payload string
	Decls   string
	Run     string
	Name    string
	Runtime jsgen.Runtime
}

// GenerateMarkup turns a markup document into a host page whose only content
// is a bootstrap script that rebuilds and writes the original document.
func GenerateMarkup(rng *rand.Rand, source string) (m.Artifact, error) {
	checksum := codec.Checksum(source)

	chunks, err := codec.SplitChunks(source, MarkupChunkMin, MarkupChunkMax, rng)
	if err != nil {
		return m.Artifact{}, err
	}

	encoded := make([]string, len(chunks))
	for i, chunk := range chunks {
		chain := evenChunkChain
		if i%2 == 1 {
			chain = oddChunkChain
		}

		encoded[i] = jsgen.QuoteJS(chain.EncodeString(chunk))
	}

	namer := jsgen.NewNamer(rng)
	rt := jsgen.NewRuntime(namer, jsgen.MarkupWriteDelay)

	decls, err := rt.Declare(jsgen.RoutineBase64, jsgen.RoutineRot13, jsgen.RoutineUTF8)
	if err != nil {
		return m.Artifact{}, err
	}

	decoder, err := render(markupDecoderTemplate, markupDecoderData{
		Decls:    decls,
		Chunks:   namer.Fresh(),
		List:     strings.Join(encoded, ","),
		Index:    namer.Fresh(),
		Piece:    namer.Fresh(),
		Document: namer.Fresh(),
		Write:    namer.Fresh(),
		Runtime:  rt,
	})
	if err != nil {
		return m.Artifact{}, err
	}

	inner, err := wrap(rng, decoder, jsgen.ScriptRetryDelay)
	if err != nil {
		return m.Artifact{}, err
	}

	hostNamer := jsgen.NewNamer(rng)
	hostRT := jsgen.NewRuntime(hostNamer, jsgen.BootstrapRetryDelay)
	name := hostNamer.Fresh()

	block, err := tamper.Block(checksum)
	if err != nil {
		return m.Artifact{}, err
	}

	hostDecls, err := hostRT.Declare(jsgen.RoutineBase64, jsgen.RoutineUTF8)
	if err != nil {
		return m.Artifact{}, err
	}

	boot, err := render(hostBootstrapTemplate, hostBootstrapData{
		Payload: declarePayload(name, BootstrapChain.EncodeString(block+inner)),
		Decls:   hostDecls,
		Run:     hostNamer.Fresh(),
		Name:    name,
		Runtime: hostRT,
	})
	if err != nil {
		return m.Artifact{}, err
	}

	page, err := render(hostDocumentTemplate, struct{ Bootstrap string }{boot})
	if err != nil {
		return m.Artifact{}, err
	}

	return m.Artifact{
		Class:    m.ClassMarkup,
		Text:     page,
		Checksum: checksum,
		Chains:   []string{evenChunkChain.String(), oddChunkChain.String(), WrapChain.String(), BootstrapChain.String()},
		Chunks:   len(chunks),
	}, nil
}

// RevealMarkup recovers the document of a GenerateMarkup artifact.
func RevealMarkup(artifact string) (string, error) {
	combined, err := unwrap(artifact, BootstrapChain)
	if err != nil {
		return "", err
	}

	decoder, err := unwrap(combined, WrapChain)
	if err != nil {
		return "", err
	}

	encoded, err := extractChunks(decoder)
	if err != nil {
		return "", err
	}

	chunks := make([]string, len(encoded))
	for i, e := range encoded {
		chain := evenChunkChain
		if i%2 == 1 {
			chain = oddChunkChain
		}

		chunks[i] = decodeUTF8(chain.Decode([]byte(e)))
	}

	return codec.JoinChunks(chunks), nil
}
