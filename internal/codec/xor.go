package codec

import "math/rand/v2"

// XOR applies key to every byte of data. Applying the same key twice returns
// the original bytes.
func XOR(data []byte, key byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key
	}

	return out
}

// RandomKey draws an XOR key in [1,255]. Zero is excluded since it would leave
// the input untouched.
func RandomKey(rng *rand.Rand) byte {
	return byte(1 + rng.IntN(255))
}
