package lz77

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

var words = strings.Fields(`It is manifest that the Light of the Sun consists of Rays
	differently Refrangible and that those Rays which are more Refrangible than
	others are also more Reflexible and that the Colours of Bodies arise from
	their reflecting some Rays more copiously than others`)

// sampleText returns n bytes of repetitive English-like text.
func sampleText(n int) []byte {
	r := rand.New(rand.NewSource(1))
	var b bytes.Buffer
	for b.Len() < n {
		b.WriteString(words[r.Intn(len(words))])
		if r.Intn(12) == 0 {
			b.WriteString(".\n")
		} else {
			b.WriteByte(' ')
		}
	}
	return b.Bytes()[:n]
}

func randomBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

func testInputs() map[string][]byte {
	noRepeats := make([]byte, 256)
	for i := range noRepeats {
		noRepeats[i] = byte(i)
	}
	block := randomBytes(1500, 7)
	return map[string][]byte{
		"empty":        {},
		"one byte":     {'x'},
		"zero byte":    {0},
		"run":          bytes.Repeat([]byte{'a'}, 2000),
		"ten":          []byte("aaaaaaaaaa"),
		"no repeats":   noRepeats,
		"zeros":        make([]byte, 3000),
		"zero literal": []byte("ab\x00ab\x00ab\x00\x00\x00ab"),
		"pattern":      bytes.Repeat([]byte("abc"), 700),
		"far repeat":   append(append([]byte{}, block...), block...),
		"text":         sampleText(20000),
		"random":       randomBytes(5000, 3),
	}
}

// checkTokens verifies the invariants every encoder output must meet.
func checkTokens(t *testing.T, src []byte, tokens []Token, window int) {
	t.Helper()
	if len(tokens) > len(src) {
		t.Fatalf("%d tokens for %d bytes", len(tokens), len(src))
	}
	cursor := 0
	for i, tok := range tokens {
		if tok.Length > 0 {
			limit := cursor
			if limit > window {
				limit = window
			}
			if tok.Offset < 1 || tok.Offset > limit {
				t.Fatalf("token %d at %d: offset %d out of range [1,%d]", i, cursor, tok.Offset, limit)
			}
		} else if tok.Offset != 0 {
			t.Fatalf("token %d at %d: offset %d with no length", i, cursor, tok.Offset)
		}
		if cursor+tok.Length > len(src) {
			t.Fatalf("token %d at %d: length %d runs past the end", i, cursor, tok.Length)
		}
		next := cursor + tok.Length
		if tok.HasLiteral {
			if next >= len(src) {
				t.Fatalf("token %d at %d: literal past the end", i, cursor)
			}
			if tok.Literal != src[next] {
				t.Fatalf("token %d at %d: literal %q, want %q", i, cursor, tok.Literal, src[next])
			}
		} else if next != len(src) {
			t.Fatalf("token %d at %d: no literal before the end", i, cursor)
		}
		if tok.Size() == 0 {
			t.Fatalf("token %d at %d makes no progress", i, cursor)
		}
		cursor += tok.Size()
	}
	if cursor != len(src) {
		t.Fatalf("tokens cover %d bytes, want %d", cursor, len(src))
	}
}

func TestRoundTrip(t *testing.T) {
	for name, data := range testInputs() {
		t.Run(name, func(t *testing.T) {
			tokens := Encode(data)
			checkTokens(t, data, tokens, WindowSize)
			decoded, err := Decode(tokens)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(decoded, data) {
				t.Fatal("decoded output doesn't match")
			}
		})
	}
}

func TestEncodeEmpty(t *testing.T) {
	if tokens := Encode(nil); len(tokens) != 0 {
		t.Fatalf("got %d tokens for empty input", len(tokens))
	}
	decoded, err := Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 0 {
		t.Fatalf("got %d bytes from no tokens", len(decoded))
	}
}

func TestSelfOverlap(t *testing.T) {
	data := []byte("aaaaaaaaaa")
	want := []Token{
		{Literal: 'a', HasLiteral: true},
		{Offset: 1, Length: 9},
	}
	tokens := Encode(data)
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("got %+v, want %+v", tokens, want)
	}
	decoded, err := Decode(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("got %q, want %q", decoded, data)
	}
}

func TestLongRun(t *testing.T) {
	data := bytes.Repeat([]byte{'a'}, 2000)
	want := []Token{
		{Literal: 'a', HasLiteral: true},
		{Offset: 1, Length: 1999},
	}
	if tokens := Encode(data); !reflect.DeepEqual(tokens, want) {
		t.Fatalf("got %+v, want %+v", tokens, want)
	}
}

func TestNoRepeats(t *testing.T) {
	data := []byte("abcdefgh")
	tokens := Encode(data)
	if len(tokens) != len(data) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(data))
	}
	for i, tok := range tokens {
		want := Token{Literal: data[i], HasLiteral: true}
		if tok != want {
			t.Fatalf("token %d: got %+v, want %+v", i, tok, want)
		}
	}
}

func TestTieBreak(t *testing.T) {
	// At position 6, "ab" matches at both 0 and 3; the older one wins.
	data := []byte("abXabYab")
	want := []Token{
		{Literal: 'a', HasLiteral: true},
		{Literal: 'b', HasLiteral: true},
		{Literal: 'X', HasLiteral: true},
		{Offset: 3, Length: 2, Literal: 'Y', HasLiteral: true},
		{Offset: 6, Length: 2},
	}
	for i := 0; i < 3; i++ {
		if tokens := Encode(data); !reflect.DeepEqual(tokens, want) {
			t.Fatalf("run %d: got %+v, want %+v", i, tokens, want)
		}
	}
}

func TestFindLongestMatch(t *testing.T) {
	tests := []struct {
		src            string
		cursor         int
		offset, length int
	}{
		{"a", 0, 0, 0},
		{"ab", 1, 0, 0},
		{"aa", 1, 1, 1},
		{"abcabc", 3, 3, 3},
		{"abababab", 2, 2, 6},
		{"abXabYab", 6, 6, 2},
		{"xabcdyabcdzabcd", 11, 10, 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s@%d", tt.src, tt.cursor), func(t *testing.T) {
			offset, length := FindLongestMatch([]byte(tt.src), tt.cursor)
			if offset != tt.offset || length != tt.length {
				t.Errorf("got (%d, %d), want (%d, %d)", offset, length, tt.offset, tt.length)
			}
		})
	}
}

func TestFindLongestMatchWindow(t *testing.T) {
	// The only earlier "q" is more than WindowSize bytes back.
	src := append([]byte{'q'}, bytes.Repeat([]byte{'-'}, WindowSize)...)
	src = append(src, 'q')
	if offset, length := FindLongestMatch(src, len(src)-1); offset != 0 || length != 0 {
		t.Fatalf("got (%d, %d), want no match", offset, length)
	}

	src = src[1:]
	if offset, length := FindLongestMatch(src, len(src)-1); offset != 0 || length != 0 {
		t.Fatalf("got (%d, %d), want no match", offset, length)
	}

	// Every '-' in the window matches; the oldest is exactly WindowSize back.
	src = append([]byte{'q'}, src...)
	src[len(src)-1] = '-'
	if offset, length := FindLongestMatch(src, len(src)-1); offset != WindowSize || length != 1 {
		t.Fatalf("got (%d, %d), want (%d, 1)", offset, length, WindowSize)
	}
}

func TestHashChainMatchesWindowSearch(t *testing.T) {
	var h HashChain
	for _, window := range []int{1, 2, 3, 7, 64, 1024, 4096} {
		for name, data := range testInputs() {
			t.Run(fmt.Sprintf("%s/%d", name, window), func(t *testing.T) {
				w := &WindowSearch{WindowSize: window}
				want := w.FindMatches(nil, data)
				h.WindowSize = window
				got := h.FindMatches(nil, data)
				if len(got) != len(want) {
					t.Fatalf("got %d tokens, want %d", len(got), len(want))
				}
				for i := range want {
					if got[i] != want[i] {
						t.Fatalf("token %d: got %+v, want %+v", i, got[i], want[i])
					}
				}
				checkTokens(t, data, got, window)
			})
		}
	}
}

func TestSingleHash(t *testing.T) {
	var q SingleHash
	for _, window := range []int{7, 1024} {
		for name, data := range testInputs() {
			t.Run(fmt.Sprintf("%s/%d", name, window), func(t *testing.T) {
				q.WindowSize = window
				tokens := q.FindMatches(nil, data)
				checkTokens(t, data, tokens, window)
				decoded, err := Decode(tokens)
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(decoded, data) {
					t.Fatal("decoded output doesn't match")
				}
			})
		}
	}
}

func TestSingleHashRun(t *testing.T) {
	var q SingleHash
	tokens := q.FindMatches(nil, bytes.Repeat([]byte{'a'}, 2000))
	if len(tokens) > 8 {
		t.Fatalf("%d tokens for a run of 2000 bytes", len(tokens))
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := map[string][]Token{
		"offset past start": {{Offset: 1, Length: 1}},
		"offset past output": {
			{Literal: 'a', HasLiteral: true},
			{Offset: 3, Length: 2},
		},
		"length without offset": {
			{Literal: 'a', HasLiteral: true},
			{Length: 2},
		},
		"negative offset": {{Offset: -1, Length: 1, Literal: 'a', HasLiteral: true}},
		"negative length": {{Literal: 'a', HasLiteral: true}, {Offset: 1, Length: -1}},
		"late corruption": {
			{Literal: 'a', HasLiteral: true},
			{Offset: 1, Length: 4000, Literal: 'b', HasLiteral: true},
			{Offset: 5000, Length: 1},
		},
	}
	for name, tokens := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := Decode(tokens)
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("got error %v, want ErrCorrupt", err)
			}
			if out != nil {
				t.Fatalf("got %d bytes of partial output", len(out))
			}
		})
	}
}

func TestDecodeOverlap(t *testing.T) {
	tokens := []Token{
		{Literal: 'a', HasLiteral: true},
		{Literal: 'b', HasLiteral: true},
		{Offset: 2, Length: 7, Literal: '!', HasLiteral: true},
	}
	decoded, err := Decode(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if want := "ababababa!"; string(decoded) != want {
		t.Fatalf("got %q, want %q", decoded, want)
	}
}

func TestDecodeTooLarge(t *testing.T) {
	// A few kilobytes of tokens that would expand to terabytes.
	huge := []Token{{Literal: 'a', HasLiteral: true}}
	for i := 0; i < 1000; i++ {
		huge = append(huge, Token{Offset: 1, Length: math.MaxInt32})
	}
	out, err := Decode(huge)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("got error %v, want ErrTooLarge", err)
	}
	if out != nil {
		t.Fatalf("got %d bytes of output", len(out))
	}

	tokens := Encode(sampleText(5000))
	if _, err := DecodeLimit(tokens, 4999); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("limit 4999: got error %v, want ErrTooLarge", err)
	}
	decoded, err := DecodeLimit(tokens, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, sampleText(5000)) {
		t.Fatal("decoded output doesn't match")
	}
}

func TestAppendText(t *testing.T) {
	got := AppendText(nil, Encode([]byte("abXabYab")))
	if want := "abX<3,2>Y<6,2>"; string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func benchmark(b *testing.B, data []byte, m MatchFinder) {
	b.StopTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	tokens := m.FindMatches(nil, data)
	b.ReportMetric(float64(len(data))/float64(len(tokens)), "bytes/token")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		m.Reset()
		tokens = m.FindMatches(tokens[:0], data)
	}
}

func BenchmarkEncodeHashChain(b *testing.B) {
	benchmark(b, sampleText(1<<16), &HashChain{})
}

func BenchmarkEncodeWindowSearch(b *testing.B) {
	benchmark(b, sampleText(1<<16), &WindowSearch{})
}

func BenchmarkEncodeSingleHash(b *testing.B) {
	benchmark(b, sampleText(1<<16), &SingleHash{})
}

func BenchmarkDecode(b *testing.B) {
	b.StopTimer()
	data := sampleText(1 << 16)
	tokens := Encode(data)
	b.SetBytes(int64(len(data)))
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(tokens); err != nil {
			b.Fatal(err)
		}
	}
}
