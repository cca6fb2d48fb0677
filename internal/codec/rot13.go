package codec

// Rot13 shifts every ASCII letter by 13 places within its case. Any other
// byte, including multi-byte UTF-8 sequences, is copied unchanged, so
// Rot13(Rot13(s)) == s for every string.
func Rot13(s string) string {
	return string(rot13Bytes([]byte(s)))
}

func rot13Bytes(data []byte) []byte {
	out := make([]byte, len(data))

	for i, c := range data {
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = 'a' + (c-'a'+13)%26
		case c >= 'A' && c <= 'Z':
			out[i] = 'A' + (c-'A'+13)%26
		default:
			out[i] = c
		}
	}

	return out
}
