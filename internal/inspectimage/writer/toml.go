package writer

import "github.com/pelletier/go-toml"

type TOML struct {
	StructuredFormat
}

func NewTOML() *TOML {
	return &TOML{
		StructuredFormat: StructuredFormat{
			MarshalFunc: func(v interface{}) ([]byte, error) {
				return toml.Marshal(v)
			},
		},
	}
}
