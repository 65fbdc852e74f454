package pattern

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type fingerprintTag struct {
	Kind  string      `yaml:"kind"`
	Value interface{} `yaml:"value"`
}

func newFingerprintTag(t Tag) fingerprintTag {
	switch t.kind {
	case tagID:
		return fingerprintTag{Kind: "id", Value: t.id}
	case tagName:
		return fingerprintTag{Kind: "name", Value: t.name}
	}
	return fingerprintTag{Kind: "none"}
}

type fingerprintSentence struct {
	Start    fingerprintTag `yaml:"start"`
	End      fingerprintTag `yaml:"end"`
	JoinKind JoinKind       `yaml:"join"`
	Binders  []Binder       `yaml:"binders"`
}

// Fingerprint is a canonical encoding of the pattern, equal only for equal patterns.
// Tags carry their kind, so a name spelled like an id or like an absent tag is still distinct.
func (p *Pattern) Fingerprint() string {
	sentences := make([]fingerprintSentence, len(p.Sentences))
	for i, sentence := range p.Sentences {
		sentences[i] = fingerprintSentence{
			Start:    newFingerprintTag(sentence.Start),
			End:      newFingerprintTag(sentence.End),
			JoinKind: sentence.JoinKind,
			Binders:  sentence.Binders,
		}
	}
	data, err := yaml.Marshal(sentences)
	if err != nil {
		panic(fmt.Sprintf("[BUG] couldn't encode pattern fingerprint: %s", err))
	}
	return string(data)
}
