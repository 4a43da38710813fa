package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ObjectID identifies a trip, place, or cluster in the stored graph document.
// On the wire it is wrapped as {"$oid": "..."}; inside the service it is a
// plain string.
type ObjectID string

// oidWire is the JSON shape of an ObjectID.
type oidWire struct {
	OID string `json:"$oid"`
}

// String returns the raw identifier.
func (id ObjectID) String() string {
	return string(id)
}

// MarshalJSON writes the identifier in its {"$oid": "..."} form.
func (id ObjectID) MarshalJSON() ([]byte, error) {
	return json.Marshal(oidWire{OID: string(id)})
}

// UnmarshalJSON accepts both the wrapped {"$oid": "..."} form and a bare
// JSON string.
func (id *ObjectID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("object id: %w", err)
		}
		*id = ObjectID(s)
		return nil
	}

	var w oidWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("object id: %w", err)
	}
	*id = ObjectID(w.OID)
	return nil
}

// SuccessorRef is a reference from one common place to the place that
// commonly follows it. The document nests the id one level deep:
// {"_id": {"$oid": "..."}}.
type SuccessorRef struct {
	ID ObjectID `json:"_id"`
}
