package metaenum_test

import (
	"encoding/json"
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaenumgo/pkg/metaenum"
)

func TestSetJSON(t *testing.T) {
	kind := newTargetSets(t)
	s := kind.Of(TargetEnemyAlive, TargetAllyAlive)

	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["ENEMY_ALIVE","ALLY_ALIVE"]`, string(data))

	out := kind.Empty()
	require.NoError(t, out.UnmarshalJSON(data))
	assert.True(t, out.Equal(s))

	empty, err := kind.Empty().MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(empty))
}

func TestSetJSONNumbers(t *testing.T) {
	kind := newTargetSets(t)

	// members without a name are written as numbers
	data, err := kind.Of(TargetAllySpot, 7).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["ALLY_SPOT",7]`, string(data))

	out := kind.Of(TargetEnemyAlive)
	require.NoError(t, out.UnmarshalJSON([]byte(`["ENEMY_SPOT", 2]`)))
	assert.Equal(t, []TargetType{TargetEnemyCorpse, TargetEnemySpot}, out.Values(), "decoding replaces the members")
}

func TestSetJSONErrors(t *testing.T) {
	kind := newTargetSets(t)
	before := kind.Of(TargetAllySpot)

	tests := []struct {
		name  string
		input string
	}{
		{"UnknownName", `["ALLY_SPOT","NOPE"]`},
		{"Bool", `[true]`},
		{"Object", `{"a":1}`},
		{"Negative", `[-1]`},
		{"Truncated", `["ALLY_SPOT"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := before
			require.Error(t, out.UnmarshalJSON([]byte(tt.input)))
			assert.True(t, out.Equal(before), "failed decode must leave the set unchanged")
		})
	}

	empty := kind.Empty()
	err := empty.DecodeJX(jx.DecodeStr(`["NOPE"]`))
	require.ErrorIs(t, err, metaenum.ErrUnknownName)

	var zero metaenum.Set[TargetType, metaenum.Word]
	require.Error(t, zero.UnmarshalJSON([]byte(`[]`)))
}

func TestSetJSONMemberRange(t *testing.T) {
	kind := newTargetSets(t)
	for _, input := range []string{`[257]`, `[9]`, `[0]`} {
		out := kind.Of(TargetAllySpot)
		require.ErrorIs(t, out.UnmarshalJSON([]byte(input)), metaenum.ErrInvalidMember, input)
		assert.True(t, out.Is(TargetAllySpot))
	}

	// ordinals within the width decode even without a name
	out := kind.Empty()
	require.NoError(t, out.UnmarshalJSON([]byte(`[7, 1]`)))
	assert.Equal(t, []TargetType{TargetEnemyAlive, 7}, out.Values())

	access := metaenum.MustSetKind[Access, metaenum.Word](newAccess(t), 3)
	mask := access.Empty()
	require.NoError(t, mask.UnmarshalJSON([]byte(`[5]`)))
	assert.Equal(t, []Access{AccessRead, AccessExec}, mask.Values())
	require.ErrorIs(t, mask.UnmarshalJSON([]byte(`[8]`)), metaenum.ErrInvalidMember)
}

func TestSetJSONEmbedded(t *testing.T) {
	kind := newTargetSets(t)
	type rule struct {
		Name    string                                   `json:"name"`
		Targets metaenum.Set[TargetType, metaenum.Word] `json:"targets"`
	}

	data, err := json.Marshal(rule{Name: "heal", Targets: kind.Of(TargetAllyAlive, TargetAllyCorpse)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"heal","targets":["ALLY_ALIVE","ALLY_CORPSE"]}`, string(data))

	// decoding needs a kind, so the target set is prepared first
	in := rule{Targets: kind.Empty()}
	require.NoError(t, json.Unmarshal(data, &in))
	assert.Equal(t, "heal", in.Name)
	assert.Equal(t, []TargetType{TargetAllyAlive, TargetAllyCorpse}, in.Targets.Values())
}

func TestWideSetJSON(t *testing.T) {
	docs, _ := newDocumentTypes(t)
	kind := metaenum.MustSetKind[DocumentType, metaenum.Wide](docs, 255)

	s := kind.Of(DocumentWave, metaenum.Widen[DocumentType](DocumentVideo), 200)
	var e jx.Encoder
	s.EncodeJX(&e)
	assert.JSONEq(t, `["WAVE","VIDEO",200]`, string(e.Bytes()))

	out := kind.Empty()
	require.NoError(t, out.DecodeJX(jx.DecodeBytes(e.Bytes())))
	assert.True(t, out.Equal(s))
}
