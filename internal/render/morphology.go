package render

import (
	"strings"
)

var morphologyLabels = map[string]string{
	"p": "past",
	"d": "past participle",
	"i": "present participle",
	"3": "3rd person",
	"s": "plural",
	"r": "comparative",
	"t": "superlative",
	"0": "lemma",
	"1": "lemma form",
}

// Form is one decoded entry of an ECDICT exchange code.
type Form struct {
	Label string
	Value string
}

// ParseMorphology decodes an exchange code such as
// "p:went/d:gone/i:going/3:goes". Unknown keys and malformed parts are
// skipped.
func ParseMorphology(exchange string) []Form {
	var forms []Form
	for _, item := range strings.Split(exchange, "/") {
		key, value, ok := strings.Cut(item, ":")
		if !ok {
			continue
		}
		label, known := morphologyLabels[strings.TrimSpace(key)]
		if !known || strings.TrimSpace(value) == "" {
			continue
		}
		forms = append(forms, Form{Label: label, Value: strings.TrimSpace(value)})
	}
	return forms
}
