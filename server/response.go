package main

import "encoding/json"

// Response field names. These string values are the serialization keys; they
// are listed here once so the wire format is fixed in a single place.
const (
	FieldMentions  = "mentions"
	FieldEmoticons = "emoticons"
	FieldLinks     = "links"
)

// Link is the resolved metadata for one URL. Immutable once constructed.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ParseResult holds the special symbols extracted from one message. A category
// with zero entries is omitted from the serialized form entirely rather than
// included as an empty list.
type ParseResult struct {
	Mentions  []string `json:"mentions,omitempty"`
	Emoticons []string `json:"emoticons,omitempty"`
	Links     []Link   `json:"links,omitempty"`
}

// Serializer renders a ParseResult as text. It is injected into the
// MessageProcessor so transports can share one definition of the output format.
type Serializer func(*ParseResult) (string, error)

// JSONSerializer is the default Serializer: JSON with 4-space indentation.
func JSONSerializer(result *ParseResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
