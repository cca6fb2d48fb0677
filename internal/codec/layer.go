package codec

import (
	"fmt"
	"strings"
)

// Layer is one named, invertible transform in an obfuscation chain.
type Layer interface {
	Name() string
	Encode(data []byte) []byte
	Decode(data []byte) []byte
}

// Base64Layer encodes bytes as standard base64 text.
type Base64Layer struct{}

// Name implements Layer.
func (Base64Layer) Name() string { return "base64" }

// Encode implements Layer.
func (Base64Layer) Encode(data []byte) []byte { return []byte(EncodeBase64(data)) }

// Decode implements Layer.
func (Base64Layer) Decode(data []byte) []byte { return DecodeBase64(string(data)) }

// Rot13Layer rotates ASCII letters.
type Rot13Layer struct{}

// Name implements Layer.
func (Rot13Layer) Name() string { return "rot13" }

// Encode implements Layer.
func (Rot13Layer) Encode(data []byte) []byte { return rot13Bytes(data) }

// Decode implements Layer.
func (Rot13Layer) Decode(data []byte) []byte { return rot13Bytes(data) }

// XORLayer XORs every byte with Key.
type XORLayer struct {
	Key byte
}

// Name implements Layer.
func (l XORLayer) Name() string { return fmt.Sprintf("xor(%d)", l.Key) }

// Encode implements Layer.
func (l XORLayer) Encode(data []byte) []byte { return XOR(data, l.Key) }

// Decode implements Layer.
func (l XORLayer) Decode(data []byte) []byte { return XOR(data, l.Key) }

// Chain composes layers. Encode applies them first to last, Decode last to
// first, so Decode(Encode(x)) == x.
type Chain []Layer

// Encode runs data through every layer in order.
func (c Chain) Encode(data []byte) []byte {
	for _, l := range c {
		data = l.Encode(data)
	}

	return data
}

// Decode runs data through every layer in reverse order.
func (c Chain) Decode(data []byte) []byte {
	for i := len(c) - 1; i >= 0; i-- {
		data = c[i].Decode(data)
	}

	return data
}

// EncodeString is Encode for text input and output.
func (c Chain) EncodeString(s string) string {
	return string(c.Encode([]byte(s)))
}

// DecodeString is Decode for text input and output.
func (c Chain) DecodeString(s string) string {
	return string(c.Decode([]byte(s)))
}

// String names the composition, e.g. "base64>rot13>base64".
func (c Chain) String() string {
	names := make([]string, len(c))
	for i, l := range c {
		names[i] = l.Name()
	}

	return strings.Join(names, ">")
}
