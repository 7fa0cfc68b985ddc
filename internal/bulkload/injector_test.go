package bulkload

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerColumnInjectorAppendsOwner(t *testing.T) {
	input := "name,price,description\r\nLamp,12.50,Desk lamp\r\n\r\nChair,40,\n"
	out, err := io.ReadAll(NewOwnerColumnInjector(strings.NewReader(input), 1))
	require.NoError(t, err)

	want := "name,price,description,user_id\nLamp,12.50,Desk lamp,1\nChair,40,,1\n"
	assert.Equal(t, want, string(out))
}

func TestOwnerColumnInjectorKeepsCarriageReturnInsideField(t *testing.T) {
	input := "name,description\r\nLamp,\"a\rb\"\r\n"
	out, err := io.ReadAll(NewOwnerColumnInjector(strings.NewReader(input), 3))
	require.NoError(t, err)
	assert.Equal(t, "name,description,user_id\nLamp,\"a\rb\",3\n", string(out))
}

func TestOwnerColumnInjectorSplitsQuotedMultilineField(t *testing.T) {
	input := "name,description\nLamp,\"first\nsecond\"\n"
	out, err := io.ReadAll(NewOwnerColumnInjector(strings.NewReader(input), 3))
	require.NoError(t, err)
	assert.Equal(t, "name,description,user_id\nLamp,\"first,3\nsecond\",3\n", string(out))
}

func TestOwnerColumnInjectorFinalLineWithoutNewline(t *testing.T) {
	out, err := io.ReadAll(NewOwnerColumnInjector(strings.NewReader("name,price\nMug,3"), 42))
	require.NoError(t, err)
	assert.Equal(t, "name,price,user_id\nMug,3,42\n", string(out))
}

func TestOwnerColumnInjectorEmptyInput(t *testing.T) {
	out, err := io.ReadAll(NewOwnerColumnInjector(strings.NewReader(""), 1))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOwnerColumnInjectorSmallReads(t *testing.T) {
	input := "name,price\nA,1\nB,2\n"
	src := NewOwnerColumnInjector(iotest.OneByteReader(strings.NewReader(input)), 7)

	var sb strings.Builder
	buf := make([]byte, 3)
	for {
		n, err := src.Read(buf)
		sb.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, "name,price,user_id\nA,1,7\nB,2,7\n", sb.String())
}

func TestOwnerColumnInjectorPropagatesReadErrors(t *testing.T) {
	src := NewOwnerColumnInjector(iotest.ErrReader(io.ErrUnexpectedEOF), 1)
	_, err := io.ReadAll(src)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
