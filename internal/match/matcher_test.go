package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritas-dev/veritas/internal/embed"
	"github.com/veritas-dev/veritas/internal/extract"
)

// Test Plan for Matcher:
// - every input code unit appears in the output exactly once
// - each documentation unit is claimed by at most one pair
// - identically named units pair up under a constant embedding
// - a floor above every score leaves all units unmatched/unclaimed
// - no code units returns all docs unclaimed
// - repeated runs over identical input produce identical pairings

func codeUnit(name string, params ...extract.Parameter) extract.CodeUnit {
	return extract.CodeUnit{
		Name:       name,
		Parameters: params,
		FilePath:   "src/app.py",
		Line:       10,
		Language:   extract.LangPython,
	}
}

func docUnit(name string, params ...extract.DocParameter) extract.DocUnit {
	return extract.DocUnit{
		FunctionName: name,
		Parameters:   params,
		FilePath:     "docs/api.md",
		Line:         5,
	}
}

func TestMatcher_EveryCodeUnitCoveredOnce(t *testing.T) {
	t.Parallel()

	m := NewMatcher(embed.NewMockProvider())
	codeUnits := []extract.CodeUnit{
		codeUnit("calculate_total", extract.Parameter{Name: "price"}),
		codeUnit("delete_user", extract.Parameter{Name: "user_id"}),
		codeUnit("parse_config"),
	}
	docUnits := []extract.DocUnit{
		docUnit("calculate_total", extract.DocParameter{Name: "price"}),
		docUnit("delete_user", extract.DocParameter{Name: "user_id"}),
	}

	pairs, unclaimed, err := m.Match(context.Background(), codeUnits, docUnits)
	require.NoError(t, err)
	require.Len(t, pairs, len(codeUnits), "every code unit appears exactly once")

	seenCode := map[string]bool{}
	seenDocs := map[string]int{}
	for _, p := range pairs {
		assert.False(t, seenCode[p.Code.Name], "code unit %s claimed twice", p.Code.Name)
		seenCode[p.Code.Name] = true
		if p.Doc != nil {
			seenDocs[p.Doc.FunctionName]++
		}
	}
	for name, count := range seenDocs {
		assert.Equal(t, 1, count, "doc unit %s claimed by more than one pair", name)
	}
	assert.Empty(t, unclaimed)
}

// constantProvider embeds every text to the same vector, so the name and
// feature components alone decide pairing.
type constantProvider struct{}

func (constantProvider) Initialize(context.Context) error { return nil }
func (constantProvider) Embed(_ context.Context, texts []string, _ embed.EmbedMode) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = []float32{1, 0, 0}
	}
	return vecs, nil
}
func (constantProvider) Dimensions() int { return 3 }
func (constantProvider) Close() error    { return nil }

func TestMatcher_ExactNamesPairUp(t *testing.T) {
	t.Parallel()

	m := NewMatcher(constantProvider{})
	codeUnits := []extract.CodeUnit{
		codeUnit("delete_user", extract.Parameter{Name: "user_id"}),
		codeUnit("calculate_total", extract.Parameter{Name: "price"}, extract.Parameter{Name: "quantity"}),
	}
	docUnits := []extract.DocUnit{
		docUnit("calculate_total", extract.DocParameter{Name: "price"}, extract.DocParameter{Name: "quantity"}),
		docUnit("delete_user", extract.DocParameter{Name: "user_id"}),
	}

	pairs, _, err := m.Match(context.Background(), codeUnits, docUnits)
	require.NoError(t, err)

	byName := map[string]MatchedPair{}
	for _, p := range pairs {
		byName[p.Code.Name] = p
	}
	require.NotNil(t, byName["calculate_total"].Doc)
	assert.Equal(t, "calculate_total", byName["calculate_total"].Doc.FunctionName)
	require.NotNil(t, byName["delete_user"].Doc)
	assert.Equal(t, "delete_user", byName["delete_user"].Doc.FunctionName)
	assert.Equal(t, MethodBlended, byName["delete_user"].Similarity.Method)
}

func TestMatcher_FloorLeavesUnmatched(t *testing.T) {
	t.Parallel()

	// A floor above 1 rejects every candidate.
	m := NewMatcher(embed.NewMockProvider(), WithFloor(1.01))
	codeUnits := []extract.CodeUnit{codeUnit("calculate_total")}
	docUnits := []extract.DocUnit{docUnit("calculate_total")}

	pairs, unclaimed, err := m.Match(context.Background(), codeUnits, docUnits)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Nil(t, pairs[0].Doc)
	assert.Equal(t, MethodNone, pairs[0].Similarity.Method)
	require.Len(t, unclaimed, 1)
	assert.Equal(t, "calculate_total", unclaimed[0].FunctionName)
}

func TestMatcher_NoCodeUnits(t *testing.T) {
	t.Parallel()

	m := NewMatcher(embed.NewMockProvider())
	pairs, unclaimed, err := m.Match(context.Background(), nil, []extract.DocUnit{docUnit("ghost")})
	require.NoError(t, err)
	assert.Empty(t, pairs)
	require.Len(t, unclaimed, 1)
}

func TestMatcher_Deterministic(t *testing.T) {
	t.Parallel()

	m := NewMatcher(embed.NewMockProvider())
	codeUnits := []extract.CodeUnit{
		codeUnit("alpha"), codeUnit("beta"), codeUnit("gamma"),
	}
	docUnits := []extract.DocUnit{
		docUnit("beta"), docUnit("alpha"),
	}

	first, firstUnclaimed, err := m.Match(context.Background(), codeUnits, docUnits)
	require.NoError(t, err)
	second, secondUnclaimed, err := m.Match(context.Background(), codeUnits, docUnits)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstUnclaimed, secondUnclaimed)
}
