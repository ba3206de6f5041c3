package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList persists a list of strings as a JSON array in a single text
// column. The encoding matches rows written by earlier releases, so it must
// stay a plain JSON array of strings.
type StringList []string

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return l.parseFromJSON([]byte(v))
	case []byte:
		return l.parseFromJSON(v)
	default:
		return fmt.Errorf("StringList: unsupported Scan type %T", src)
	}
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	encoded, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("StringList: encode: %w", err)
	}
	return string(encoded), nil
}

func (l *StringList) parseFromJSON(data []byte) error {
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("StringList: decode %q: %w", string(data), err)
	}
	if out == nil {
		out = []string{}
	}
	*l = StringList(out)
	return nil
}
