package jsgen

import (
	"fmt"
	"strings"
	"text/template"
)

// Retry delays, in milliseconds, used by emitted evaluators and sinks. The
// emitted code retries without bound.
const (
	ScriptRetryDelay    = 10
	MarkupWriteDelay    = 100
	BootstrapRetryDelay = 50
)

// Runtime carries the fresh names bound to the inline decoder routines of
// one emitted block.
type Runtime struct {
	Inline string
	Atob   string
	Rot13  string
	XOR    string
	UTF8   string
	Eval   string
	Delay  int
}

// NewRuntime binds every routine to a fresh name from namer.
func NewRuntime(namer *Namer, delay int) Runtime {
	return Runtime{
		Inline: namer.Fresh(),
		Atob:   namer.Fresh(),
		Rot13:  namer.Fresh(),
		XOR:    namer.Fresh(),
		UTF8:   namer.Fresh(),
		Eval:   namer.Fresh(),
		Delay:  delay,
	}
}

// Routine names one inline helper.
type Routine int

// Available routines.
const (
	RoutineBase64 Routine = iota
	RoutineRot13
	RoutineXOR
	RoutineUTF8
	RoutineEval
)

// The base64 alphabet is assembled from pieces so that no declaration in the
// emitted code looks like a payload assignment.
var routineTemplates = map[Routine]*template.Template{
	RoutineBase64: mustRoutine("base64",
		`var {%.Inline%}=function(_){var _k='ABCDEFGHIJKLMNOPQRSTUVWXYZ'+'abcdefghijklmnopqrstuvwxyz'+'0123456789+/';var _o='',_a=0,_n=0;for(var _i=0;_i<_.length;_i++){_a=(_a<<6)|_k.indexOf(_.charAt(_i));_n+=6;if(_n>=8){_n-=8;_o+=String.fromCharCode((_a>>_n)&255);_a&=(1<<_n)-1;}}return _o;};`+
			"\n    "+
			`var {%.Atob%}=function(_){_=String(_).replace(/[^A-Za-z0-9+\/]/g,'');try{if(typeof atob==='function'&&_.length%4!==1){return atob(_);}}catch(_e){}return {%.Inline%}(_);};`),
	RoutineRot13: mustRoutine("rot13",
		`var {%.Rot13%}=function(_){return String(_).replace(/[A-Za-z]/g,function(_c){var _b=_c<='Z'?65:97;return String.fromCharCode((_c.charCodeAt(0)-_b+13)%26+_b);});};`),
	RoutineXOR: mustRoutine("xor",
		`var {%.XOR%}=function(_,_k){var _o=[];for(var _i=0;_i<_.length;_i++){_o.push(String.fromCharCode(_.charCodeAt(_i)^_k));}return _o.join('');};`),
	RoutineUTF8: mustRoutine("utf8",
		`var {%.UTF8%}=function(_){try{return decodeURIComponent(escape(_));}catch(_e){return _;}};`),
	RoutineEval: mustRoutine("eval",
		`var {%.Eval%}=function(_){try{(0,eval)(_);}catch(_e){setTimeout(function(){{%.Eval%}(_);},{%.Delay%});}};`),
}

func mustRoutine(name, text string) *template.Template {
	return template.Must(template.New(name).Delims("{%", "%}").Parse(text))
}

// Declare renders the declarations of the requested routines, in order, one
// per line.
func (rt Runtime) Declare(routines ...Routine) (string, error) {
	lines := make([]string, 0, len(routines))

	for _, r := range routines {
		tmpl, ok := routineTemplates[r]
		if !ok {
			continue
		}

		var b strings.Builder
		if err := tmpl.Execute(&b, rt); err != nil {
			return "", fmt.Errorf("declare %s: %w", tmpl.Name(), err)
		}

		lines = append(lines, b.String())
	}

	return strings.Join(lines, "\n    "), nil
}
