package pattern

import (
	"math"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// ParseJSON decodes a pattern in its wire form, where enums are integer codes.
func ParseJSON(data []byte) (*Pattern, error) {
	var parser fastjson.Parser
	v, err := parser.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse json pattern")
	}
	if err := checkVersion(string(v.GetStringBytes("version"))); err != nil {
		return nil, err
	}

	sentences := v.GetArray("sentences")
	out := &Pattern{
		Sentences: make([]Sentence, len(sentences)),
	}
	for i := range sentences {
		sentence, err := jsonSentence(sentences[i])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid sentence with index %d", i)
		}
		out.Sentences[i] = sentence
	}

	if err := out.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pattern")
	}
	return out, nil
}

func jsonSentence(v *fastjson.Value) (Sentence, error) {
	start, err := jsonTag(v.Get("start"))
	if err != nil {
		return Sentence{}, errors.Wrap(err, "invalid start tag")
	}
	end, err := jsonTag(v.Get("end"))
	if err != nil {
		return Sentence{}, errors.Wrap(err, "invalid end tag")
	}
	joinCode, err := jsonInt32(v, "join", ErrUnknownCode)
	if err != nil {
		return Sentence{}, err
	}
	joinKind, err := DecodeJoinKind(joinCode)
	if err != nil {
		return Sentence{}, err
	}

	rawBinders := v.GetArray("binders")
	binders := make([]Binder, len(rawBinders))
	for i := range rawBinders {
		binder, err := jsonBinder(rawBinders[i])
		if err != nil {
			return Sentence{}, errors.Wrapf(err, "invalid binder with index %d", i)
		}
		binders[i] = binder
	}

	return Sentence{
		Start:    start,
		End:      end,
		Binders:  binders,
		JoinKind: joinKind,
	}, nil
}

func jsonTag(v *fastjson.Value) (Tag, error) {
	if v == nil {
		return NoTag, nil
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return NoTag, nil
	case fastjson.TypeString:
		name, err := v.StringBytes()
		if err != nil {
			return NoTag, err
		}
		return NameTag(string(name)), nil
	case fastjson.TypeNumber:
		id, err := v.Int64()
		if err != nil {
			return NoTag, errors.Wrapf(ErrInvalidTag, "%s", err)
		}
		if id < math.MinInt32 || id > math.MaxInt32 {
			return NoTag, errors.Wrapf(ErrInvalidTag, "integer tag %d out of range", id)
		}
		return IDTag(int32(id)), nil
	}
	return NoTag, errors.Wrapf(ErrInvalidTag, "tag must be a string, a number or null, got %s", v.Type())
}

// jsonInt32 reads an optional integer field, zero when it's absent or null.
// Anything else than an integer fitting in 32 bits fails with the given error.
func jsonInt32(v *fastjson.Value, key string, invalid error) (int32, error) {
	field := v.Get(key)
	if field == nil || field.Type() == fastjson.TypeNull {
		return 0, nil
	}
	if field.Type() != fastjson.TypeNumber {
		return 0, errors.Wrapf(invalid, "%s must be a number, got %s", key, field.Type())
	}
	n, err := field.Int64()
	if err != nil {
		return 0, errors.Wrapf(invalid, "%s: %s", key, err)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, errors.Wrapf(invalid, "%s %d out of range", key, n)
	}
	return int32(n), nil
}

func jsonParams(v *fastjson.Value) Params {
	var out Params
	for _, label := range v.GetArray("labels") {
		out.Labels = append(out.Labels, string(label.GetStringBytes()))
	}
	for _, column := range v.GetArray("columns") {
		out.Columns = append(out.Columns, string(column.GetStringBytes()))
	}
	out.AllColumns = v.GetBool("allColumns")
	out.Predicate = string(v.GetStringBytes("predicate"))
	return out
}

func jsonEdge(v *fastjson.Value) (EdgeStep, error) {
	directionCode, err := jsonInt32(v, "direction", ErrUnknownCode)
	if err != nil {
		return EdgeStep{}, err
	}
	direction, err := DecodeDirection(directionCode)
	if err != nil {
		return EdgeStep{}, err
	}
	expandCode, err := jsonInt32(v, "expand", ErrUnknownCode)
	if err != nil {
		return EdgeStep{}, err
	}
	expandOpt, err := DecodeExpandOpt(expandCode)
	if err != nil {
		return EdgeStep{}, err
	}
	return EdgeStep{
		Direction: direction,
		ExpandOpt: expandOpt,
		Params:    jsonParams(v),
	}, nil
}

func jsonBinder(v *fastjson.Value) (Binder, error) {
	if edge := v.Get("edge"); edge != nil {
		step, err := jsonEdge(edge)
		if err != nil {
			return Binder{}, errors.Wrap(err, "invalid edge step")
		}
		return NewEdgeBinder(step), nil
	}
	if vertex := v.Get("vertex"); vertex != nil {
		opt := VertexOptEnd
		if raw := vertex.Get("opt"); raw != nil && raw.Type() != fastjson.TypeNull {
			code, err := jsonInt32(vertex, "opt", ErrUnknownCode)
			if err != nil {
				return Binder{}, errors.Wrap(err, "invalid vertex step")
			}
			if opt, err = DecodeVertexOpt(code); err != nil {
				return Binder{}, errors.Wrap(err, "invalid vertex step")
			}
		}
		return NewVertexBinder(VertexStep{
			Opt:    opt,
			Params: jsonParams(vertex),
		}), nil
	}
	if path := v.Get("path"); path != nil {
		edge, err := jsonEdge(path.Get("edge"))
		if err != nil {
			return Binder{}, errors.Wrap(err, "invalid path edge step")
		}
		lower, err := jsonInt32(path, "lower", ErrInvalidHopRange)
		if err != nil {
			return Binder{}, err
		}
		upper, err := jsonInt32(path, "upper", ErrInvalidHopRange)
		if err != nil {
			return Binder{}, err
		}
		return NewPathBinder(PathStep{
			Edge:  edge,
			Lower: int(lower),
			Upper: int(upper),
		}), nil
	}
	if v.Exists("select") {
		return NewPredicateBinder(string(v.GetStringBytes("select"))), nil
	}
	return Binder{}, errors.Wrap(ErrMalformedBinder, "binder must be one of edge, vertex, path or select")
}
