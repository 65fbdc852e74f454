package pattern

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const supportedVersionConstraint = "^1.0.0"

var supportedVersions = func() *semver.Constraints {
	constraint, err := semver.NewConstraint(supportedVersionConstraint)
	if err != nil {
		log.Fatalf("[BUG] Couldn't create pattern file version constraint: %s", err)
	}
	return constraint
}()

func checkVersion(version string) error {
	if version == "" {
		return nil
	}
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "couldn't parse pattern file version '%s'", version)
	}
	if !supportedVersions.Check(parsed) {
		return errors.Errorf("unsupported pattern file version %s, supported: %s", parsed, supportedVersionConstraint)
	}
	return nil
}

// ReadFile reads a pattern file, JSON if the extension says so, YAML otherwise.
func ReadFile(path string) (*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read pattern file")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

type yamlTag struct {
	tag Tag
}

func (t *yamlTag) UnmarshalYAML(value *yaml.Node) error {
	switch value.Tag {
	case "!!null":
		t.tag = NoTag
	case "!!int":
		var id int32
		if err := value.Decode(&id); err != nil {
			return errors.Wrapf(ErrInvalidTag, "couldn't decode integer tag: %s", err)
		}
		t.tag = IDTag(id)
	default:
		t.tag = NameTag(value.Value)
	}
	return nil
}

type yamlParams struct {
	Labels     []string `yaml:"labels"`
	Columns    []string `yaml:"columns"`
	AllColumns bool     `yaml:"allColumns"`
	Predicate  string   `yaml:"predicate"`
}

func (p yamlParams) params() Params {
	return Params{
		Labels:     p.Labels,
		Columns:    p.Columns,
		AllColumns: p.AllColumns,
		Predicate:  p.Predicate,
	}
}

type yamlEdge struct {
	Direction string     `yaml:"direction"`
	Expand    string     `yaml:"expand"`
	Params    yamlParams `yaml:",inline"`
}

func (e *yamlEdge) step() (EdgeStep, error) {
	out := EdgeStep{
		Direction: DirectionOut,
		ExpandOpt: ExpandOptVertex,
		Params:    e.Params.params(),
	}
	if e.Direction != "" {
		direction, err := ParseDirection(e.Direction)
		if err != nil {
			return EdgeStep{}, err
		}
		out.Direction = direction
	}
	if e.Expand != "" {
		expandOpt, err := ParseExpandOpt(e.Expand)
		if err != nil {
			return EdgeStep{}, err
		}
		out.ExpandOpt = expandOpt
	}
	return out, nil
}

type yamlVertex struct {
	Opt    string     `yaml:"opt"`
	Params yamlParams `yaml:",inline"`
}

type yamlPath struct {
	Edge  yamlEdge `yaml:"edge"`
	Lower int      `yaml:"lower"`
	Upper int      `yaml:"upper"`
}

type yamlBinder struct {
	Edge   *yamlEdge   `yaml:"edge"`
	Vertex *yamlVertex `yaml:"vertex"`
	Path   *yamlPath   `yaml:"path"`
	Select *string     `yaml:"select"`
}

func (b *yamlBinder) binder() (Binder, error) {
	switch {
	case b.Edge != nil:
		step, err := b.Edge.step()
		if err != nil {
			return Binder{}, errors.Wrap(err, "invalid edge step")
		}
		return NewEdgeBinder(step), nil

	case b.Vertex != nil:
		step := VertexStep{
			Opt:    VertexOptEnd,
			Params: b.Vertex.Params.params(),
		}
		if b.Vertex.Opt != "" {
			opt, err := ParseVertexOpt(b.Vertex.Opt)
			if err != nil {
				return Binder{}, errors.Wrap(err, "invalid vertex step")
			}
			step.Opt = opt
		}
		return NewVertexBinder(step), nil

	case b.Path != nil:
		edge, err := b.Path.Edge.step()
		if err != nil {
			return Binder{}, errors.Wrap(err, "invalid path edge step")
		}
		return NewPathBinder(PathStep{
			Edge:  edge,
			Lower: b.Path.Lower,
			Upper: b.Path.Upper,
		}), nil

	case b.Select != nil:
		return NewPredicateBinder(*b.Select), nil
	}
	return Binder{}, errors.Wrap(ErrMalformedBinder, "binder must be one of edge, vertex, path or select")
}

type yamlSentence struct {
	Start   yamlTag      `yaml:"start"`
	End     yamlTag      `yaml:"end"`
	Join    string       `yaml:"join"`
	Binders []yamlBinder `yaml:"binders"`
}

type yamlPattern struct {
	Version   string         `yaml:"version"`
	Sentences []yamlSentence `yaml:"sentences"`
}

// ParseYAML decodes a pattern file with named enum values.
func ParseYAML(data []byte) (*Pattern, error) {
	var file yamlPattern
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml pattern")
	}
	if err := checkVersion(file.Version); err != nil {
		return nil, err
	}

	out := &Pattern{
		Sentences: make([]Sentence, len(file.Sentences)),
	}
	for i, sentence := range file.Sentences {
		joinKind := JoinKindInner
		if sentence.Join != "" {
			var err error
			joinKind, err = ParseJoinKind(sentence.Join)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid sentence with index %d", i)
			}
		}
		binders := make([]Binder, len(sentence.Binders))
		for j := range sentence.Binders {
			binder, err := sentence.Binders[j].binder()
			if err != nil {
				return nil, errors.Wrapf(err, "invalid binder with index %d of sentence with index %d", j, i)
			}
			binders[j] = binder
		}
		out.Sentences[i] = Sentence{
			Start:    sentence.Start.tag,
			End:      sentence.End.tag,
			Binders:  binders,
			JoinKind: joinKind,
		}
	}

	if err := out.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pattern")
	}
	return out, nil
}
