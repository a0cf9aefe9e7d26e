package hnsearch

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrMalformedURI is returned by EncodeURI for input that is not valid UTF-8.
var ErrMalformedURI = errors.New("URI malformed")

const upperhex = "0123456789ABCDEF"

// EncodeURI percent-encodes s the way ECMAScript encodeURI does: letters,
// digits, the reserved set ";,/?:@&=+$#" and the marks "-_.!~*'()" are
// kept, every other UTF-8 byte is written as %XX.
//
// It is applied to a whole URL, so reserved characters inside a query
// value pass through unescaped.
func EncodeURI(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", ErrMalformedURI
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepInURI(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String(), nil
}

func keepInURI(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(";,/?:@&=+$#-_.!~*'()", c) >= 0
}
