package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clone round-trips v through the codec
func clone(v any) (any, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func TestClone_StructuralEquality(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{"string", "go", "go"},
		{"int", 2, int64(2)},
		{"negative", -7, int64(-7)},
		{"bool", true, true},
		{"nil", nil, nil},
		{"slice", []string{"a", "b"}, []any{"a", "b"}},
		{
			"nested map",
			map[string]any{"id": 1, "tags": []any{"x"}},
			map[string]any{"id": int64(1), "tags": []any{"x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clone(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClone_DoesNotShareMemory(t *testing.T) {
	src := map[string]any{"items": []any{"a"}}

	got, err := clone(src)
	require.NoError(t, err)

	src["items"].([]any)[0] = "changed"
	assert.Equal(t, "a", got.(map[string]any)["items"].([]any)[0])
}

func TestMarshal_Unserializable(t *testing.T) {
	_, err := Marshal(func() {})
	assert.ErrorIs(t, err, ErrUnserializable)

	_, err = Marshal(make(chan int))
	assert.ErrorIs(t, err, ErrUnserializable)

	_, err = Marshal(map[string]any{"callback": func() {}})
	assert.ErrorIs(t, err, ErrUnserializable)
}

func TestMarshal_RejectsWhatDecodeCannotRead(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"int keys", map[int]string{1: "a"}},
		{"any keys", map[any]any{1: "a"}},
		{"nested int keys", map[string]any{"inner": map[int]bool{2: true}}},
		{"uint64 overflow", uint64(math.MaxUint64)},
		{"uint64 overflow in slice", []any{uint64(math.MaxInt64) + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.input)
			assert.ErrorIs(t, err, ErrUnserializable)
			assert.Nil(t, data)
		})
	}
}

func TestMarshal_AcceptedValuesDecode(t *testing.T) {
	inputs := []any{
		uint64(math.MaxInt64),
		map[string]uint8{"a": 1},
		[]any{"x", 1.5, nil, map[string]any{}},
	}

	for _, in := range inputs {
		data, err := Marshal(in)
		require.NoError(t, err)
		_, err = Decode(data)
		assert.NoError(t, err)
	}
}

func TestUnmarshal_IntoStruct(t *testing.T) {
	type point struct {
		X int    `cbor:"x"`
		Y int    `cbor:"y"`
		L string `cbor:"label"`
	}

	data, err := Marshal(point{X: 1, Y: 2, L: "p"})
	require.NoError(t, err)

	var got point
	require.NoError(t, Unmarshal(data, &got))
	assert.Equal(t, point{X: 1, Y: 2, L: "p"}, got)
}

func TestUnmarshal_Garbage(t *testing.T) {
	var v any
	assert.Error(t, Unmarshal([]byte{0xff, 0x00}, &v))
}
