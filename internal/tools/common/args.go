package common

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/teemow/eventcal/internal/codec"
)

// Argument names shared by several tools.
const (
	ArgEventID = "event_api_id"
	ArgEmail   = "email"
	ArgLimit   = "limit"
)

// DefaultListLimit caps list tool output when no limit is given.
const DefaultListLimit = 50

// StringArg returns the trimmed string argument, or "" if absent or not a string.
func StringArg(args map[string]any, key string) string {
	v, ok := args[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// RequiredString returns the string argument or an error naming it.
func RequiredString(args map[string]any, key string) (string, error) {
	v := StringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// BoolArg returns the boolean argument, or def if absent.
func BoolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// IntArg returns the numeric argument, or def if absent. JSON numbers
// arrive as float64.
func IntArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// TimeArg parses an optional ISO-8601 timestamp argument.
func TimeArg(args map[string]any, key string) (*time.Time, error) {
	s := StringArg(args, key)
	if s == "" {
		return nil, nil
	}
	t, err := codec.ParseTime(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &t, nil
}

// ListArg splits a comma separated argument, dropping empty items.
func ListArg(args map[string]any, key string) []string {
	var items []string
	for _, part := range strings.Split(StringArg(args, key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// AddressesArg parses a comma separated list of addresses in either
// "jane@example.com" or "Jane Doe <jane@example.com>" form.
func AddressesArg(args map[string]any, key string) ([]*mail.Address, error) {
	items := ListArg(args, key)
	addrs := make([]*mail.Address, 0, len(items))
	for _, item := range items {
		addr, err := mail.ParseAddress(item)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q in %s: %w", item, key, err)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
