// internal/game/code.go
package game

import "crypto/rand"

// codeLength is the length of generated lobby codes.
const codeLength = 6

// codeCharset deliberately omits the letter O to keep codes easy to read
// aloud at a party.
const codeCharset = "ABCDEFGHIJKLMNPQRSTUVWXYZ0123456789"

// GenerateCode returns a random alphanumeric code of length n. Bytes are
// rejection-sampled so every charset character is equally likely.
func GenerateCode(n int) (string, error) {
	const max = byte(255 - (256 % len(codeCharset)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b > max {
				continue
			}
			out = append(out, codeCharset[int(b)%len(codeCharset)])
			if len(out) == n {
				return string(out), nil
			}
		}
	}
}
