package jsgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// deadShape enumerates the inert statement forms.
type deadShape int

const (
	deadRandomFactory deadShape = iota
	deadMapReduce
	deadClearedTimer
	deadReversedClock
	deadReversedCharCodes
	deadMaxOfRandoms
	deadSquaresFilter
	deadObjectKeys
	deadShapeCount
)

// renderDeadShape writes one statement that binds a and b and never touches
// anything else. n is a random literal folded into the arithmetic.
func renderDeadShape(shape deadShape, a, b string, n int) string {
	switch shape {
	case deadRandomFactory:
		return fmt.Sprintf("var %[1]s=function(){return Math.random()*%[3]d;};var %[2]s=%[1]s();", a, b, n)
	case deadMapReduce:
		return fmt.Sprintf("var %[1]s=[1,2,3,4,5].map(function(x){return x*Math.PI+%[3]d;});var %[2]s=%[1]s.reduce(function(p,q){return p+q;},0);", a, b, n)
	case deadClearedTimer:
		return fmt.Sprintf("var %[1]s=setTimeout(function(){},Math.floor(Math.random()*%[3]d));clearTimeout(%[1]s);var %[2]s=%[3]d%%7;", a, b, n)
	case deadReversedClock:
		return fmt.Sprintf("var %[1]s=new Date().getTime()%%%[3]d;var %[2]s=String(%[1]s).split('').reverse().join('');", a, b, n)
	case deadReversedCharCodes:
		return fmt.Sprintf("var %[1]s=String.fromCharCode(65,66,67).split('').reverse().join('');var %[2]s=function(_){return _+Math.random()*%[3]d;};%[2]s(%[1]s.length);", a, b, n)
	case deadMaxOfRandoms:
		return fmt.Sprintf("var %[1]s=function(_1,_2){return _1>_2?_1:_2;};var %[2]s=%[1]s(Math.random(),%[3]d);", a, b, n)
	case deadSquaresFilter:
		return fmt.Sprintf("var %[1]s=Array(10).fill(0).map(function(_,i){return i*i;});var %[2]s=%[1]s.filter(function(x){return x>%[3]d;}).length;", a, b, n)
	case deadObjectKeys:
		return fmt.Sprintf("var %[1]s=Object.keys({a:1,b:2,c:%[3]d});var %[2]s=%[1]s.forEach(function(k){return k.length;});", a, b, n)
	default:
		return ""
	}
}

// DeadCode returns count inert statements followed by one inert conditional,
// one statement per line. Every binding uses a fresh name from namer and is
// never read outside the block.
func DeadCode(namer *Namer, rng *rand.Rand, count int) string {
	lines := make([]string, 0, count+1)

	for i := 0; i < count; i++ {
		shape := deadShape(rng.IntN(int(deadShapeCount)))
		lines = append(lines, renderDeadShape(shape, namer.Fresh(), namer.Fresh(), 2+rng.IntN(998)))
	}

	lines = append(lines, fmt.Sprintf(
		"var %[1]s=Math.random()>%[4]s;if(%[1]s){var %[2]s=function(){return 'never';};}else{var %[3]s=function(){return 'executed';};}",
		namer.Fresh(), namer.Fresh(), namer.Fresh(), fmt.Sprintf("0.%d", 1+rng.IntN(9)),
	))

	return strings.Join(lines, "\n    ")
}
