package format

import skema "github.com/reoring/skema"

// codes maps error type tags to the keyword-style codes of the payloads.
var codes = map[string]string{
	skema.TypeBlank:           "presence",
	skema.TypeInvalidType:     "type",
	skema.TypeTooShort:        "min_length",
	skema.TypeTooLong:         "max_length",
	skema.TypeGreaterEqual:    "minimum",
	skema.TypeLessEqual:       "maximum",
	skema.TypeGreater:         "exclusive_minimum",
	skema.TypeLess:            "exclusive_maximum",
	skema.TypeNotMultiple:     "multiple_of",
	skema.TypeInclusion:       "enum",
	skema.TypeEqualTo:         "const",
	skema.TypeInvalid:         "format",
	skema.TypeTooFewItems:     "min_items",
	skema.TypeTooManyItems:    "max_items",
	skema.TypeNotUnique:       "unique_items",
	skema.TypeAdditionalItems: "additional_items",
	skema.TypeUnknownKey:      "additional_properties",
	skema.TypeNoMatch:         "composition",
	skema.TypeAmbiguous:       "composition",
}

// Code returns the code for a type tag.
func Code(typ string) (string, bool) {
	c, ok := codes[typ]
	return c, ok
}
