package model

// Artifact is the emitted text for one obfuscated source file.
type Artifact struct {
	Class AssetClass
	Text  string
	// Checksum is the content checksum embedded in the anti-tamper block.
	Checksum int
	// Chains names the encoding compositions applied, innermost first.
	Chains []string
	// Key is the XOR key used by script payloads; zero for other classes.
	Key byte
	// Chunks is the number of markup chunks; zero for other classes.
	Chunks int
}
