package sheetmodels

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Embedded is a JSON value stored in a single cell. Raw holds a cell that never was
// JSON (e.g. a comma joined name list) and is emitted as a plain string.
type Embedded[T any] struct {
	Value T
	Raw   string
}

func (e Embedded[T]) MarshalJSON() ([]byte, error) {
	if e.Raw != "" {
		return json.Marshal(e.Raw)
	}
	return json.Marshal(e.Value)
}

func (e *Embedded[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &e.Raw); err != nil {
			return err
		}
		// form clients post JSON encoded as a string
		if LooksLikeJSON(e.Raw) {
			var decoded T
			if err := json.Unmarshal([]byte(e.Raw), &decoded); err == nil {
				e.Value = decoded
				e.Raw = ""
			}
		}
		return nil
	}
	return json.Unmarshal(data, &e.Value)
}

// Encode returns the cell value.
func (e Embedded[T]) Encode() (string, error) {
	if e.Raw != "" {
		return e.Raw, nil
	}
	data, err := json.Marshal(e.Value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FlexInt accepts both 1 and "1".
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if value == "" || value == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return errors.Errorf("invalid integer %s", string(data))
	}
	*f = FlexInt(v)
	return nil
}

func (f FlexInt) Int() int {
	return int(f)
}

type OptionRef struct {
	ID   FlexInt `json:"id"`
	Name string  `json:"name"`
}

type FileRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
}

// DepartmentRef renders as {} when the department id could not be resolved.
type DepartmentRef struct {
	ID        int    `json:"id,omitempty"`
	ShortName string `json:"shortname,omitempty"`
}

func EncodeJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", errors.Wrap(err, "encode embedded json")
	}
	return string(data), nil
}
