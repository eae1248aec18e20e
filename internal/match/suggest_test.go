package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	names := []string{"CompressedTensor", "DynamicTensor", "StaticTensor", "DynamicTensor"}

	list := Rank("DynamicTensr", names)
	require.Len(t, list, 3, "duplicates are scored once")
	assert.Equal(t, "DynamicTensor", list[0].Name)

	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].Score, list[i].Score)
	}
}

func TestRank_TiesByName(t *testing.T) {
	list := Rank("zzz", []string{"b", "a"})
	assert.Equal(t, []string{"a", "b"}, list.Names())
}

func TestCandidateList_Top(t *testing.T) {
	list := CandidateList{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	assert.Equal(t, []string{"a", "b"}, list.Top(2).Names())
	assert.Len(t, list.Top(10), 3)
	assert.Len(t, list.Top(-1), 3)
	assert.Empty(t, list.Top(0))
}

func TestSuggest(t *testing.T) {
	names := []string{"blaze::DynamicTensor", "blaze::CompressedTensor", "blaze::Subtensor"}

	assert.Equal(t, []string{"blaze::DynamicTensor"}, Suggest("DynamicTensr", names, 1))
	assert.Empty(t, Suggest("Quat", names, 3))
	assert.Empty(t, Suggest("DynamicTensor", nil, 3))
}
