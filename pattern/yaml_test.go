package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const friendsYAML = `
version: 1.2.0
sentences:
  - start: person
    end: friend
    binders:
      - edge:
          direction: out
          labels: [knows]
      - vertex:
          opt: end
          columns: [name]
  - start: friend
    end: 7
    join: anti
    binders:
      - path:
          edge:
            direction: both
          lower: 1
          upper: 3
      - vertex: {}
      - select: age > 30
  - start: person
    end: ~
    binders:
      - edge:
          expand: degree
`

func TestParseYAML(t *testing.T) {
	p, err := ParseYAML([]byte(friendsYAML))
	require.NoError(t, err)
	require.Len(t, p.Sentences, 3)

	first := p.Sentences[0]
	assert.Equal(t, NameTag("person"), first.Start)
	assert.Equal(t, NameTag("friend"), first.End)
	assert.Equal(t, JoinKindInner, first.JoinKind)
	require.Len(t, first.Binders, 2)
	require.Equal(t, BinderTypeEdge, first.Binders[0].BinderType)
	assert.Equal(t, EdgeStep{
		Direction: DirectionOut,
		ExpandOpt: ExpandOptVertex,
		Params:    Params{Labels: []string{"knows"}},
	}, *first.Binders[0].Edge)
	require.Equal(t, BinderTypeVertex, first.Binders[1].BinderType)
	assert.Equal(t, VertexOptEnd, first.Binders[1].Vertex.Opt)
	assert.Equal(t, []string{"name"}, first.Binders[1].Vertex.Params.Columns)

	second := p.Sentences[1]
	assert.Equal(t, IDTag(7), second.End)
	assert.Equal(t, JoinKindAnti, second.JoinKind)
	require.Len(t, second.Binders, 3)
	require.Equal(t, BinderTypePath, second.Binders[0].BinderType)
	assert.Equal(t, DirectionBoth, second.Binders[0].Path.Edge.Direction)
	assert.Equal(t, 1, second.Binders[0].Path.Lower)
	assert.Equal(t, 3, second.Binders[0].Path.Upper)
	assert.Equal(t, VertexOptEnd, second.Binders[1].Vertex.Opt)
	assert.Equal(t, "age > 30", second.Binders[2].Predicate.Predicate)

	third := p.Sentences[2]
	assert.Equal(t, NoTag, third.End)
	assert.Equal(t, ExpandOptDegree, third.Binders[0].Edge.ExpandOpt)
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "no sentences",
			input:   "sentences: []",
			wantErr: ErrEmptyPattern,
		},
		{
			name:    "missing start",
			input:   "sentences: [{end: b, binders: [{edge: {}}]}]",
			wantErr: ErrMissingStartTag,
		},
		{
			name:    "no binders",
			input:   "sentences: [{start: a, end: b}]",
			wantErr: ErrEmptySentence,
		},
		{
			name:    "empty binder",
			input:   "sentences: [{start: a, binders: [{}]}]",
			wantErr: ErrMalformedBinder,
		},
		{
			name:    "tag wider than 32 bits",
			input:   "sentences: [{start: a, end: 4294967297, binders: [{edge: {}}]}]",
			wantErr: ErrInvalidTag,
		},
		{
			name:    "bad hop range",
			input:   "sentences: [{start: a, binders: [{path: {lower: 3, upper: 1}}, {vertex: {}}]}]",
			wantErr: ErrInvalidHopRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	t.Run("unknown enum name", func(t *testing.T) {
		_, err := ParseYAML([]byte("sentences: [{start: a, join: outer, binders: [{edge: {}}]}]"))
		assert.Error(t, err)
	})
	t.Run("unsupported version", func(t *testing.T) {
		_, err := ParseYAML([]byte("version: 2.0.0\nsentences: [{start: a, binders: [{edge: {}}]}]"))
		require.Error(t, err)
		assert.Equal(t, "unsupported pattern file version 2.0.0, supported: ^1.0.0", err.Error())
	})
	t.Run("malformed version", func(t *testing.T) {
		_, err := ParseYAML([]byte("version: one\nsentences: [{start: a, binders: [{edge: {}}]}]"))
		assert.Error(t, err)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "pattern.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(friendsYAML), 0644))
	jsonPath := filepath.Join(dir, "pattern.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(friendsJSON), 0644))

	fromYAML, err := ReadFile(yamlPath)
	require.NoError(t, err)
	fromJSON, err := ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, fromYAML.Fingerprint(), fromJSON.Fingerprint())

	_, err = ReadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
