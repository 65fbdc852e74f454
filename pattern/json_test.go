package pattern

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// friendsJSON is the wire form of friendsYAML.
const friendsJSON = `{
	"version": "1.0.0",
	"sentences": [
		{
			"start": "person",
			"end": "friend",
			"binders": [
				{"edge": {"direction": 0, "labels": ["knows"]}},
				{"vertex": {"opt": 1, "columns": ["name"]}}
			]
		},
		{
			"start": "friend",
			"end": 7,
			"join": 5,
			"binders": [
				{"path": {"edge": {"direction": 2}, "lower": 1, "upper": 3}},
				{"vertex": {}},
				{"select": "age > 30"}
			]
		},
		{
			"start": "person",
			"end": null,
			"binders": [
				{"edge": {"expand": 2}}
			]
		}
	]
}`

func TestParseJSON(t *testing.T) {
	p, err := ParseJSON([]byte(friendsJSON))
	require.NoError(t, err)
	require.Len(t, p.Sentences, 3)

	assert.Equal(t, NameTag("person"), p.Sentences[0].Start)
	assert.Equal(t, []string{"knows"}, p.Sentences[0].Binders[0].Edge.Params.Labels)
	assert.Equal(t, IDTag(7), p.Sentences[1].End)
	assert.Equal(t, JoinKindAnti, p.Sentences[1].JoinKind)
	assert.Equal(t, VertexOptEnd, p.Sentences[1].Binders[1].Vertex.Opt)
	assert.Equal(t, NoTag, p.Sentences[2].End)
	assert.Equal(t, ExpandOptDegree, p.Sentences[2].Binders[0].Edge.ExpandOpt)

	fromYAML, err := ParseYAML([]byte(friendsYAML))
	require.NoError(t, err)
	assert.Equal(t, fromYAML.Fingerprint(), p.Fingerprint())
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "unknown join kind",
			input:   `{"sentences": [{"start": "a", "join": 9, "binders": [{"edge": {}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "unknown direction",
			input:   `{"sentences": [{"start": "a", "binders": [{"edge": {"direction": 3}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "unknown expand option",
			input:   `{"sentences": [{"start": "a", "binders": [{"edge": {"expand": -1}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "unknown vertex option",
			input:   `{"sentences": [{"start": "a", "binders": [{"vertex": {"opt": 8}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "no sentences",
			input:   `{"sentences": []}`,
			wantErr: ErrEmptyPattern,
		},
		{
			name:    "null start",
			input:   `{"sentences": [{"start": null, "binders": [{"edge": {}}]}]}`,
			wantErr: ErrMissingStartTag,
		},
		{
			name:    "join code wider than 32 bits",
			input:   `{"sentences": [{"start": "a", "join": 4294967301, "binders": [{"edge": {}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "join kind by name",
			input:   `{"sentences": [{"start": "a", "join": "anti", "binders": [{"edge": {}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "fractional join code",
			input:   `{"sentences": [{"start": "a", "join": 1.5, "binders": [{"edge": {}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "direction by name",
			input:   `{"sentences": [{"start": "a", "binders": [{"edge": {"direction": "out"}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "vertex option wider than 32 bits",
			input:   `{"sentences": [{"start": "a", "binders": [{"vertex": {"opt": 4294967296}}]}]}`,
			wantErr: ErrUnknownCode,
		},
		{
			name:    "tag wider than 32 bits",
			input:   `{"sentences": [{"start": 1, "end": 4294967297, "binders": [{"edge": {}}]}]}`,
			wantErr: ErrInvalidTag,
		},
		{
			name:    "boolean tag",
			input:   `{"sentences": [{"start": true, "binders": [{"edge": {}}]}]}`,
			wantErr: ErrInvalidTag,
		},
		{
			name:    "hop bound by name",
			input:   `{"sentences": [{"start": "a", "binders": [{"path": {"lower": "one", "upper": 3}}, {"vertex": {}}]}]}`,
			wantErr: ErrInvalidHopRange,
		},
		{
			name:    "hop bound wider than 32 bits",
			input:   `{"sentences": [{"start": "a", "binders": [{"path": {"lower": 1, "upper": 4294967299}}, {"vertex": {}}]}]}`,
			wantErr: ErrInvalidHopRange,
		},
		{
			name:    "unknown binder",
			input:   `{"sentences": [{"start": "a", "binders": [{"hop": {}}]}]}`,
			wantErr: ErrMalformedBinder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	t.Run("null codes fall back to defaults", func(t *testing.T) {
		p, err := ParseJSON([]byte(`{"sentences": [{"start": -1, "end": 2147483647, "join": null, "binders": [{"edge": {"direction": null}}, {"vertex": {"opt": null}}]}]}`))
		require.NoError(t, err)
		assert.Equal(t, IDTag(-1), p.Sentences[0].Start)
		assert.Equal(t, IDTag(2147483647), p.Sentences[0].End)
		assert.Equal(t, JoinKindInner, p.Sentences[0].JoinKind)
		assert.Equal(t, DirectionOut, p.Sentences[0].Binders[0].Edge.Direction)
		assert.Equal(t, VertexOptEnd, p.Sentences[0].Binders[1].Vertex.Opt)
	})
	t.Run("syntax", func(t *testing.T) {
		_, err := ParseJSON([]byte(`{"sentences": [`))
		assert.Error(t, err)
	})
}
