package output

import (
	"fmt"
	"strings"
)

type Format int

const (
	Unknown Format = iota
	Pretty
	Plain
	JSON
)

var (
	ErrInvalidFormat = fmt.Errorf("unknown format")
)

// FormatFromString parses the --output flag. text is an alias of plain
func FormatFromString(in string) (Format, error) {
	switch strings.ToLower(in) {
	case "pretty":
		return Pretty, nil
	case "plain", "text":
		return Plain, nil
	case "json":
		return JSON, nil
	}
	return Unknown, ErrInvalidFormat
}

func (f Format) String() string {
	switch f {
	case Pretty:
		return "pretty"
	case Plain:
		return "text"
	case JSON:
		return "json"
	}
	return "unknown"
}

// TabString joins the fields with tabs for the plain output
func TabString(fields ...string) string {
	return strings.Join(fields, "\t")
}
