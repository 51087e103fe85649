package core

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReader(t *testing.T) {
	var prompts bytes.Buffer
	input := strings.NewReader("first\nsecond\r\n\nlast")
	fr := NewFileReader(input, &prompts)

	for _, expected := range []string{"first", "second", "", "last"} {
		line, err := fr.ReadLine("> ")
		require.NoError(t, err)
		assert.Equal(t, expected, line)
	}

	_, err := fr.ReadLine("> ")
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "> > > > > ", prompts.String())
}

func TestFileReaderLeavesRestOfInput(t *testing.T) {
	input := strings.NewReader("cat\nfor the child\n")
	fr := NewFileReader(input, nil)

	line, err := fr.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "cat", line)

	rest, err := io.ReadAll(input)
	require.NoError(t, err)
	assert.Equal(t, "for the child\n", string(rest))
}

func readByte(r io.Reader) <-chan byte {
	out := make(chan byte, 1)
	go func() {
		var buf [8]byte
		if n, err := r.Read(buf[:]); n == 1 && err == nil {
			out <- buf[0]
		}
		close(out)
	}()
	return out
}

func TestGatedReader(t *testing.T) {
	g := newGatedReader(strings.NewReader("ab\rc"))

	pending := readByte(g)
	select {
	case b := <-pending:
		t.Fatalf("read %q before the gate opened", b)
	case <-time.After(50 * time.Millisecond):
	}

	g.allow()
	assert.Equal(t, byte('a'), <-pending)
	assert.Equal(t, byte('b'), <-readByte(g))
	assert.Equal(t, byte('\r'), <-readByte(g))

	pending = readByte(g)
	select {
	case b := <-pending:
		t.Fatalf("read %q past the end of the line", b)
	case <-time.After(50 * time.Millisecond):
	}

	g.allow()
	assert.Equal(t, byte('c'), <-pending)
}

func TestGatedReaderClose(t *testing.T) {
	g := newGatedReader(strings.NewReader("unread"))

	require.NoError(t, g.Close())
	require.NoError(t, g.Close())

	n, err := g.Read(make([]byte, 4))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}
