package history

import "encoding/json"

// MarshalJSON writes the kind's display tag rather than its ordinal, so
// report envelopes stay readable.
func (k DiagKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}
