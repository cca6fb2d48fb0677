package codec

// ChecksumModulus bounds the content checksum.
const ChecksumModulus = 10000

// Checksum sums the code points of text and reduces the sum modulo
// ChecksumModulus.
func Checksum(text string) int {
	sum := 0
	for _, r := range text {
		sum = (sum + int(r)) % ChecksumModulus
	}

	return sum
}
