package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID ist eine Produkt-ID. JSON-Zahlen bleiben beim Schreiben Zahlen,
// JSON-Strings bleiben Strings.
type ID struct {
	Value   string
	Numeric bool
}

// StringID erstellt eine String-ID
func StringID(s string) ID {
	return ID{Value: s}
}

// NumberID erstellt eine numerische ID
func NumberID(n int64) ID {
	return ID{Value: strconv.FormatInt(n, 10), Numeric: true}
}

func (id ID) String() string {
	return id.Value
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.Numeric {
		return []byte(id.Value), nil
	}
	return json.Marshal(id.Value)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ID{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID{Value: s}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("catalog: invalid product id %s", b)
		}
		*id = ID{Value: n.String(), Numeric: true}
	}
	return nil
}
