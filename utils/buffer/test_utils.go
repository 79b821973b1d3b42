package buffer

import (
	"bytes"
	"encoding"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// BinarySerializer is the interface implemented by the serializable objects of the library.
type BinarySerializer interface {
	io.WriterTo
	io.ReaderFrom
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	BinarySize() int
}

// RequireSerializerCorrect checks that an object complies with [BinarySerializer]:
// WriteTo and MarshalBinary write exactly BinarySize() identical bytes, and
// ReadFrom and UnmarshalBinary recover an object equal to the input.
// The input must be a pointer.
func RequireSerializerCorrect(t *testing.T, input BinarySerializer) {

	require.Equal(t, reflect.Ptr, reflect.TypeOf(input).Kind(), "input must be a pointer")

	newObject := func() BinarySerializer {
		return reflect.New(reflect.TypeOf(input).Elem()).Interface().(BinarySerializer)
	}

	size := input.BinarySize()

	// WriteTo on a Writer
	buf := NewBufferSize(size)
	n, err := input.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, int64(size), n)
	require.Len(t, buf.Bytes(), size)

	// WriteTo on a plain io.Writer
	var plain bytes.Buffer
	n, err = input.WriteTo(&plain)
	require.NoError(t, err)
	require.Equal(t, int64(size), n)
	require.Equal(t, buf.Bytes(), plain.Bytes())

	// ReadFrom
	output := newObject()
	n, err = output.ReadFrom(NewBuffer(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, int64(size), n)
	require.Equal(t, input, output)

	// ReadFrom on a plain io.Reader
	output = newObject()
	n, err = output.ReadFrom(bytes.NewReader(plain.Bytes()))
	require.NoError(t, err)
	require.Equal(t, int64(size), n)
	require.Equal(t, input, output)

	// MarshalBinary
	data, err := input.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, buf.Bytes(), data)

	// UnmarshalBinary
	output = newObject()
	require.NoError(t, output.UnmarshalBinary(data))
	require.Equal(t, input, output)
}
