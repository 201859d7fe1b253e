package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeepsKeyOrder(t *testing.T) {
	obj, err := DecodeObject([]byte(`{"3":{"a":1},"1":true,"2":null,"0":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2", "0"}, obj.Keys())

	nested, ok := obj.Object("3")
	require.True(t, ok)
	v, ok := nested.Get("a")
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), v)

	v, ok = obj.Get("2")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestDecodeArrays(t *testing.T) {
	v, err := Decode([]byte(`[{"b":1,"a":2},[],"s",false]`))
	require.NoError(t, err)
	arr, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, arr, 4)
	assert.Equal(t, []string{"b", "a"}, arr[0].(Object).Keys())
	assert.Equal(t, []any{}, arr[1])
	assert.Equal(t, "s", arr[2])
	assert.Equal(t, false, arr[3])
}

func TestDuplicateKeyLastWins(t *testing.T) {
	obj, err := DecodeObject([]byte(`{"a":1,"a":2}`))
	require.NoError(t, err)
	v, _ := obj.Get("a")
	assert.Equal(t, json.Number("2"), v)
}

func TestUnmarshalIntoStruct(t *testing.T) {
	var msg struct {
		PublicID string `json:"public_id"`
		Modified Object `json:"modified"`
		Added    Object `json:"added"`
	}
	err := json.Unmarshal([]byte(`{"public_id":"abc","modified":{"z":1,"y":2},"added":null}`), &msg)
	require.NoError(t, err)
	assert.Equal(t, "abc", msg.PublicID)
	assert.Equal(t, []string{"z", "y"}, msg.Modified.Keys())
	assert.Nil(t, msg.Added)
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeObject([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestMarshalRoundTripKeepsOrder(t *testing.T) {
	in := `{"b":{"d":1,"c":[1,"x"]},"a":null}`
	obj, err := DecodeObject([]byte(in))
	require.NoError(t, err)
	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}
