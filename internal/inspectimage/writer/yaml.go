package writer

import "gopkg.in/yaml.v3"

type YAML struct {
	StructuredFormat
}

func NewYAML() *YAML {
	return &YAML{
		StructuredFormat: StructuredFormat{
			MarshalFunc: func(v interface{}) ([]byte, error) {
				return yaml.Marshal(v)
			},
		},
	}
}
