package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// YesNo accepts the form values "Yes" and "No" as well as JSON booleans.
type YesNo bool

func (y *YesNo) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*y = YesNo(t)
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true":
			*y = true
		case "no", "false":
			*y = false
		default:
			return fmt.Errorf("expected Yes or No, got %q", t)
		}
	default:
		return fmt.Errorf("expected Yes or No, got %s", b)
	}
	return nil
}

// Bool returns nil when the value was not supplied.
func (y *YesNo) Bool() *bool {
	if y == nil {
		return nil
	}
	b := bool(*y)
	return &b
}

// Number accepts a JSON number or a numeric string.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("expected a number, got %q", s)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("expected a number, got %s", b)
	}
	*n = Number(f)
	return nil
}

// Float returns nil when the value was not supplied.
func (n *Number) Float() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

// Text accepts a JSON string, number or boolean and keeps its text form.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(x)
	case float64:
		*t = Text(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("expected text, got %s", b)
	}
	return nil
}

// RefID is an identifier reference that accepts any JSON value. Only a
// string holding a valid ObjectID resolves; other values are kept as raw
// text so they can be logged.
type RefID struct {
	raw string
	id  ObjectID
	ok  bool
}

func (r *RefID) UnmarshalJSON(b []byte) error {
	*r = RefID{raw: string(bytes.TrimSpace(b))}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	r.raw = s
	if id, err := ObjectIDFromHex(s); err == nil {
		r.id, r.ok = id, true
	}
	return nil
}

// ObjectID reports the referenced id and whether it was valid.
func (r RefID) ObjectID() (ObjectID, bool) {
	return r.id, r.ok
}

func (r RefID) String() string {
	return r.raw
}
