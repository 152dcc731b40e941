package node

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Envelope is a decoded chat message. Only the first delimiter splits the
// sender from the content, so content may itself contain '|'.
type Envelope struct {
	Sender  string
	Content string
}

// Encode renders the wire form "<sender>|<content>".
func (e Envelope) Encode() []byte {
	return []byte(fmt.Sprintf("%s%c%s", e.Sender, delimiter, e.Content))
}

// ParseEnvelope decodes a single received payload.
func ParseEnvelope(raw []byte) (Envelope, error) {
	if !utf8.Valid(raw) {
		return Envelope{}, ErrInvalidUTF8
	}
	sender, content, ok := strings.Cut(string(raw), string(delimiter))
	if !ok {
		return Envelope{}, ErrMalformedEnvelope
	}
	return Envelope{Sender: sender, Content: content}, nil
}
