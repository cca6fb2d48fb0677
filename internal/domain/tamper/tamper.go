// Package tamper renders the run-time self-check block that prefixes emitted
// artifacts.
package tamper

import (
	"fmt"
	"strings"
	"text/template"
)

// Check intervals and thresholds of the emitted checks.
const (
	DebuggerCheckInterval = 500
	ViewportCheckInterval = 1000
	ViewportGapThreshold  = 200
	TripwireDelay         = 100
)

// The checksum is embedded and summed again at run time; no branch compares
// the two values.
var blockTemplate = template.Must(template.New("tamper").Delims("{%", "%}").Parse(`
(function(){
    var _0x=function(){var _=[];for(var _3=0;_3<arguments.length;_3++){var _4=arguments[_3];for(var _5=0;_5<_4.length;_5++){_.push(String.fromCharCode(_4.charCodeAt(_5)^0x42));}}return _.join('');};
    var _dbg=function(){var _1=String.fromCharCode(100,101,98,117,103,103,101,114);return typeof window[_1]==='function'||typeof window[_0x(_1)]==='function';};
    setInterval(function(){try{if(_dbg()){throw new Error();}if(typeof console!=='undefined'&&(console.log.toString().length!==console.log.toString().length||console.debug.toString().length!==console.debug.toString().length)){throw new Error();}}catch(e){window.location='about:blank';}},{%.DebuggerInterval%});
    var _dev=function(){return /DevTools/.test(window.navigator.userAgent)||window.outerHeight-window.innerHeight>{%.Gap%}||window.outerWidth-window.innerWidth>{%.Gap%};};
    setInterval(function(){try{if(_dev()){throw new Error();}}catch(e){if(document.body){document.body.innerHTML='';}}},{%.ViewportInterval%});
    var _c=function(_){var _1=0;for(var _2=0;_2<_.length;_2++){_1+=_.charCodeAt(_2);}return _1;};
    var _v=_c(String({%.Checksum%}));
    var _f=function(_){try{Object.defineProperty(_,'cookie',{get:function(){return '';},set:function(){}});}catch(e){}};
    _f(document);
    var _e=function(){var _1=function(){};return _1.toString().indexOf('native')!==-1;};
    if(!_e()){setTimeout(function(){window.location='about:blank';},{%.TripwireDelay%});}
})();
`))

type blockParams struct {
	Checksum         int
	DebuggerInterval int
	ViewportInterval int
	Gap              int
	TripwireDelay    int
}

// Block returns the self-check block parameterized by checksum.
func Block(checksum int) (string, error) {
	var b strings.Builder

	err := blockTemplate.Execute(&b, blockParams{
		Checksum:         checksum,
		DebuggerInterval: DebuggerCheckInterval,
		ViewportInterval: ViewportCheckInterval,
		Gap:              ViewportGapThreshold,
		TripwireDelay:    TripwireDelay,
	})
	if err != nil {
		return "", fmt.Errorf("render tamper block: %w", err)
	}

	return b.String(), nil
}
