package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntUnmarshal(t *testing.T) {
	cases := map[string]int64{
		`42`:                              42,
		`"17"`:                            17,
		`{"set":true,"number":8}`:         8,
		`{"set":false,"number":8}`:        0,
		`{"set":true,"infinite":true}`:    0,
		`"n/a"`:                           0,
		`null`:                            0,
		`[1,2]`:                           0,
	}
	for in, want := range cases {
		var v Int
		require.NoError(t, json.Unmarshal([]byte(in), &v), in)
		assert.EqualValues(t, want, v, in)
	}

	var nested Int
	require.NoError(t, json.Unmarshal([]byte(`{"number":{"set":true,"number":3}}`), &nested))
	assert.EqualValues(t, 3, nested)
}

func TestStringListUnmarshal(t *testing.T) {
	var l StringList
	require.NoError(t, json.Unmarshal([]byte(`["idle", 3, "drain"]`), &l))
	assert.Equal(t, StringList{"idle", "drain"}, l)
	assert.Equal(t, "IDLE", l.First())
	assert.Equal(t, "DRAIN", l.At(1))
	assert.Equal(t, "", l.At(2))

	require.NoError(t, json.Unmarshal([]byte(`"a, b"`), &l))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, json.Unmarshal([]byte(`12`), &l))
	assert.Nil(t, l)
}

func TestNodesCloneIsDeep(t *testing.T) {
	ns := Nodes{{Name: "n1", State: StringList{"IDLE"}}, nil}
	cp := ns.Clone()
	require.Len(t, cp, 1)
	cp[0].State[0] = "DOWN"
	assert.Equal(t, "IDLE", ns[0].State[0])
}
