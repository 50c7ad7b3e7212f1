// Package codec serializes payloads crossing a worker boundary.
//
// Every message is copied through CBOR, so the receiving side never shares memory
// with the sender. Values CBOR cannot represent (functions, channels, unsafe
// pointers) are rejected at encode time, as are values whose encoding would not
// decode back into the generic form (maps with non-string keys, unsigned
// integers above math.MaxInt64).
package codec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// ErrUnserializable indicates a value the codec cannot represent
var ErrUnserializable = errors.New("value cannot be serialized")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort: cbor.SortCanonical,
		Time: cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("codec: build encode mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("codec: build decode mode: %v", err))
	}
}

// Marshal encodes v. The encoding is verified against the generic decoder, so
// anything Marshal accepts can be received on the other side.
func Marshal(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		var typeErr *cbor.UnsupportedTypeError
		var valueErr *cbor.UnsupportedValueError
		if errors.As(err, &typeErr) || errors.As(err, &valueErr) {
			return nil, fmt.Errorf("%w: %w", ErrUnserializable, err)
		}
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var decoded any
	if err := decMode.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnserializable, err)
	}
	return data, nil
}

// Unmarshal decodes data into v, which must be a pointer
func Unmarshal(data []byte, v any) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Decode decodes data into its generic form: maps become map[string]any,
// arrays []any and integers int64.
func Decode(data []byte) (any, error) {
	var v any
	if err := Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
