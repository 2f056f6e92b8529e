package lz77

import "strconv"

// AppendText appends a human-readable rendering of tokens to dst.
// Back-references are written as <offset,length> symbols and literals are
// written as-is.
func AppendText(dst []byte, tokens []Token) []byte {
	for _, t := range tokens {
		if t.Length > 0 {
			dst = append(dst, '<')
			dst = strconv.AppendInt(dst, int64(t.Offset), 10)
			dst = append(dst, ',')
			dst = strconv.AppendInt(dst, int64(t.Length), 10)
			dst = append(dst, '>')
		}
		if t.HasLiteral {
			dst = append(dst, t.Literal)
		}
	}
	return dst
}
