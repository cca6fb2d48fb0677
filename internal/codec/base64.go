// Package codec implements the reversible text encodings that make up the
// obfuscation chains: base64, rot13, single-byte XOR and rune chunking.
package codec

import "encoding/base64"

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Index = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}

	for i := 0; i < len(base64Alphabet); i++ {
		idx[base64Alphabet[i]] = int8(i)
	}

	return idx
}()

// EncodeBase64 encodes data with the standard padded alphabet.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes s the way browsers' atob polyfills do: characters
// outside the alphabet (padding, whitespace, punctuation) are dropped and the
// remaining sextets are folded into bytes. A trailing lone sextet carries fewer
// than eight bits and is discarded. It never fails.
func DecodeBase64(s string) []byte {
	out := make([]byte, 0, len(s)*3/4)

	var acc uint32

	bits := 0

	for i := 0; i < len(s); i++ {
		v := base64Index[s[i]]
		if v < 0 {
			continue
		}

		acc = acc<<6 | uint32(v)
		bits += 6

		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>uint(bits)))
			acc &= 1<<uint(bits) - 1
		}
	}

	return out
}
