package writer

import "encoding/json"

type JSON struct {
	StructuredFormat
}

func NewJSON() *JSON {
	return &JSON{
		StructuredFormat: StructuredFormat{
			MarshalFunc: json.Marshal,
		},
	}
}
