package ssmtp

import (
	"bytes"
	"encoding/base64"
	"testing"
)

// encodeAllAtOnce drives the streaming encoder in a single STEP call, for
// comparison against a chunked encode of the same input.
func encodeAllAtOnce(t *testing.T, in []byte) []byte {
	t.Helper()
	s := newBase64Stream()
	out := make([]byte, 4*((len(in)+2)/3)+4)
	consumed, produced := s.step(in, out, true)
	if consumed != len(in) {
		t.Fatalf("one-shot encode consumed %d of %d bytes", consumed, len(in))
	}
	return out[:produced]
}

func TestBase64RoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("f"),
		[]byte("fo"),
		[]byte("foo"),
		[]byte("foob"),
		[]byte("fooba"),
		[]byte("foobar"),
		bytes.Repeat([]byte{0xff, 0x00, 0x7f, 0x10}, 500),
	}

	for _, in := range cases {
		want := base64.StdEncoding.EncodeToString(in)
		got := encodeAllAtOnce(t, in)
		if string(got) != want {
			t.Errorf("one-shot encode(%q) = %q, want %q", in, got, want)
		}

		decoded, err := base64.StdEncoding.DecodeString(string(got))
		if err != nil {
			t.Fatalf("decode(%q): %v", got, err)
		}
		if !bytes.Equal(decoded, in) {
			t.Errorf("round trip(%q) = %q", in, decoded)
		}
	}
}

// TestBase64ArbitraryChunking verifies the encoder produces the same output
// no matter how the input is chunked or how small the output buffer is,
// per spec.md §8's base64 round-trip property.
func TestBase64ArbitraryChunking(t *testing.T) {
	in := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 13)
	want := base64.StdEncoding.EncodeToString(in)

	inChunkSizes := []int{1, 2, 3, 5, 7, 16}
	outBufSizes := []int{1, 2, 3, 4, 5, 9}

	for _, inChunk := range inChunkSizes {
		for _, outBuf := range outBufSizes {
			s := newBase64Stream()
			var got bytes.Buffer
			rest := in
			for len(rest) > 0 {
				n := inChunk
				if n > len(rest) {
					n = len(rest)
				}
				chunk := rest[:n]
				rest = rest[n:]
				finished := len(rest) == 0
				for len(chunk) > 0 || finished {
					out := make([]byte, outBuf)
					consumed, produced := s.step(chunk, out, finished)
					got.Write(out[:produced])
					chunk = chunk[consumed:]
					if finished && len(chunk) == 0 && produced < len(out) {
						break
					}
				}
			}
			if got.String() != want {
				t.Errorf("inChunk=%d outBuf=%d: got %q, want %q", inChunk, outBuf, got.String(), want)
			}
		}
	}
}

func TestBase64PaddingByRemainder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a", "YQ=="},
		{"ab", "YWI="},
		{"abc", "YWJj"},
	}
	for _, tc := range tests {
		got := encodeAllAtOnce(t, []byte(tc.in))
		if string(got) != tc.want {
			t.Errorf("encode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
