package oref

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RawAlert is one alert record as published by the Home Front Command feed.
// Every field is optional.
type RawAlert struct {
	ID          FlexString `json:"id"`
	Category    FlexString `json:"cat"`
	Title       string     `json:"title"`
	Localities  []string   `json:"data"`
	Description string     `json:"desc"`
}

// FlexString accepts either a JSON string or a JSON number.
// The feed has published numeric ids and categories at times.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// PayloadKind tags the shape of a feed payload.
type PayloadKind int

const (
	// PayloadEmpty is the all-clear state: no active alerts
	PayloadEmpty PayloadKind = iota

	// PayloadSingle is a bare alert object
	PayloadSingle

	// PayloadList is an array of alert objects
	PayloadList
)

// String implements fmt.Stringer
func (k PayloadKind) String() string {
	switch k {
	case PayloadEmpty:
		return "empty"
	case PayloadSingle:
		return "single"
	case PayloadList:
		return "list"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Payload is a decoded feed body. The feed answers with nothing, one object or
// an array of objects; Kind records which one arrived.
type Payload struct {
	Kind   PayloadKind
	Single RawAlert
	List   []RawAlert
}

// Records coerces the payload to a list. A single object becomes a one-element list.
func (p Payload) Records() []RawAlert {
	switch p.Kind {
	case PayloadSingle:
		return []RawAlert{p.Single}
	case PayloadList:
		return p.List
	default:
		return nil
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Payload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Payload{Kind: PayloadEmpty}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []RawAlert
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("failed to decode alert list: %w", err)
		}
		if len(list) == 0 {
			*p = Payload{Kind: PayloadEmpty}
			return nil
		}
		*p = Payload{Kind: PayloadList, List: list}
	case '{':
		var single RawAlert
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return fmt.Errorf("failed to decode alert object: %w", err)
		}
		*p = Payload{Kind: PayloadSingle, Single: single}
	default:
		return fmt.Errorf("payload must be an object or an array")
	}

	return nil
}

// utf8BOM is sometimes prepended to the feed body
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParsePayload decodes a raw feed body. An empty or whitespace-only body is the
// empty payload, not an error.
func ParsePayload(body []byte) (Payload, error) {
	body = bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
	if len(body) == 0 {
		return Payload{Kind: PayloadEmpty}, nil
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}
