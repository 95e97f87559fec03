// https://mymemory.translated.net/doc/spec.php
package mymemory

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Response struct {
	ResponseData    ResponseData `json:"responseData"`
	ResponseStatus  Status       `json:"responseStatus"`
	ResponseDetails string       `json:"responseDetails"`
	Matches         []Match      `json:"matches"`
}

type ResponseData struct {
	TranslatedText string  `json:"translatedText"`
	Match          float64 `json:"match"`
}

type Match struct {
	Segment     string `json:"segment"`
	Translation string `json:"translation"`
	Quality     string `json:"quality"`
}

// Status is the HTTP-like status embedded in the body.
type Status int

func (s *Status) UnmarshalJSON(data []byte) error {
	// responseStatus is a number on success but a quoted string on some errors
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	switch v := raw.(type) {
	case float64:
		*s = Status(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("strconv.Atoi(%s) > %w", v, err)
		}
		*s = Status(n)
	default:
		return fmt.Errorf("unexpected responseStatus %s", string(data))
	}
	return nil
}
