package cloaks

import (
	"math/rand/v2"

	"veilpack.dev/pkg/veilpack/internal/codec"
	"veilpack.dev/pkg/veilpack/internal/domain/jsgen"
	"veilpack.dev/pkg/veilpack/internal/domain/tamper"
	m "veilpack.dev/pkg/veilpack/internal/model"
)

// Dead-code statement counts for script preludes.
const (
	scriptDeadMin = 5
	scriptDeadMax = 10
)

// ScriptChain is the payload composition for script sources.
func ScriptChain(key byte) codec.Chain {
	return codec.Chain{codec.Base64Layer{}, codec.Rot13Layer{}, codec.XORLayer{Key: key}, codec.Base64Layer{}}
}

var scriptDecoderTemplate = mustTemplate("script", `
(function(){
    {%.Dead%}
    {%.Decls%}
    var {%.Key%}={%.KeyValue%};{%.Payload%}
    var {%.Out%}={%.Runtime.Atob%}({%.Data%});
    {%.Out%}={%.Runtime.XOR%}({%.Out%},{%.Key%});
    {%.Out%}={%.Runtime.Rot13%}({%.Out%});
    {%.Out%}={%.Runtime.UTF8%}({%.Runtime.Atob%}({%.Out%}));
    {%.Runtime.Eval%}({%.Out%});
})();
`)

type scriptDecoderData struct {
	Dead     string
	Decls    string
	Key      string
	KeyValue int
	Payload  string
	Data     string
	Out      string
	Runtime  jsgen.Runtime
}

// GenerateScript turns script source into a nested self-decoding artifact:
// an outer base64 bootstrap around a rot13 wrap around the anti-tamper block
// and the keyed decoder.
func GenerateScript(rng *rand.Rand, source string) (m.Artifact, error) {
	checksum := codec.Checksum(source)
	key := codec.RandomKey(rng)
	chain := ScriptChain(key)

	namer := jsgen.NewNamer(rng)
	dead := jsgen.DeadCode(namer, rng, scriptDeadMin+rng.IntN(scriptDeadMax-scriptDeadMin+1))
	rt := jsgen.NewRuntime(namer, jsgen.ScriptRetryDelay)
	data := namer.Fresh()

	decls, err := rt.Declare(jsgen.RoutineBase64, jsgen.RoutineRot13, jsgen.RoutineXOR, jsgen.RoutineUTF8, jsgen.RoutineEval)
	if err != nil {
		return m.Artifact{}, err
	}

	decoder, err := render(scriptDecoderTemplate, scriptDecoderData{
		Dead:     dead,
		Decls:    decls,
		Key:      namer.Fresh(),
		KeyValue: int(key),
		Payload:  declarePayload(data, chain.EncodeString(source)),
		Data:     data,
		Out:      namer.Fresh(),
		Runtime:  rt,
	})
	if err != nil {
		return m.Artifact{}, err
	}

	block, err := tamper.Block(checksum)
	if err != nil {
		return m.Artifact{}, err
	}

	middle, err := wrap(rng, block+decoder, jsgen.ScriptRetryDelay)
	if err != nil {
		return m.Artifact{}, err
	}

	outer, err := bootstrap(rng, middle)
	if err != nil {
		return m.Artifact{}, err
	}

	return m.Artifact{
		Class:    m.ClassScript,
		Text:     outer,
		Checksum: checksum,
		Chains:   []string{chain.String(), WrapChain.String(), BootstrapChain.String()},
		Key:      key,
	}, nil
}

// RevealScript recovers the source of a GenerateScript artifact.
func RevealScript(artifact string) (string, error) {
	middle, err := unwrap(artifact, BootstrapChain)
	if err != nil {
		return "", err
	}

	inner, err := unwrap(middle, WrapChain)
	if err != nil {
		return "", err
	}

	key, payload, err := extractKeyedPayload(inner)
	if err != nil {
		return "", err
	}

	return decodeUTF8(ScriptChain(key).Decode([]byte(payload))), nil
}
