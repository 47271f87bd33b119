package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jacentio/mysfits/store"
)

var (
	// ErrMalformedClick is returned when a payload is not a click event.
	ErrMalformedClick = errors.New("mysfits: malformed click event")
)

// click is a decoded click event. Fields other than userId and mysfitId are
// ignored.
type click struct {
	UserID   string          `json:"userId"`
	MysfitID json.RawMessage `json:"mysfitId"`

	// lookupID is the mysfit id as a table key.
	lookupID string
}

// enrichedClick is the payload written back to the delivery stream.
type enrichedClick struct {
	UserID   string          `json:"userId"`
	MysfitID json.RawMessage `json:"mysfitId"`
	GoodEvil string          `json:"goodevil"`
	LawChaos string          `json:"lawchaos"`
	Species  string          `json:"species"`
}

// decodeClick parses a JSON click. The mysfitId may be a string or a number;
// a number is looked up by its literal text.
func decodeClick(data []byte) (*click, error) {
	var c click
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedClick, err)
	}
	if c.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrMalformedClick)
	}

	raw := bytes.TrimSpace(c.MysfitID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: mysfitId is required", ErrMalformedClick)
	}

	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &c.lookupID); err != nil {
			return nil, fmt.Errorf("%w: mysfitId: %w", ErrMalformedClick, err)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("%w: mysfitId must be a string or a number", ErrMalformedClick)
		}
		c.lookupID = n.String()
	}
	if c.lookupID == "" {
		return nil, fmt.Errorf("%w: mysfitId is empty", ErrMalformedClick)
	}

	c.MysfitID = raw
	return &c, nil
}

// encodeEnriched serialises the enriched click followed by a newline, the
// record delimiter expected downstream.
func encodeEnriched(c *click, m *store.Mysfit) ([]byte, error) {
	data, err := json.Marshal(enrichedClick{
		UserID:   c.UserID,
		MysfitID: c.MysfitID,
		GoodEvil: m.GoodEvil,
		LawChaos: m.LawChaos,
		Species:  m.Species,
	})
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
