package columns

import "strings"

// Column describes a fixed table column.
type Column struct {
	Key   string
	Label string
	Width int
}

// Base lists the columns every table shows, in display order.
var Base = []Column{
	{Key: "time", Label: "Timestamp", Width: 24},
	{Key: "level", Label: "Level", Width: 7},
	{Key: "name", Label: "Name", Width: 18},
	{Key: "namespace", Label: "Namespace", Width: 18},
	{Key: "msg", Label: "Message", Width: 40},
	{Key: "error", Label: "Error", Width: 20},
	{Key: "errorDetails", Label: "Error Details", Width: 20},
	{Key: "correlationId", Label: "Correlation ID", Width: 18},
	{Key: "service", Label: "Service", Width: 16},
}

// DefaultWidth is used for dynamic columns.
const DefaultWidth = 18

// IsBase reports whether name is a base column, ignoring case.
func IsBase(name string) bool {
	_, ok := lookup(name)
	return ok
}

// Label returns the header label for key.
func Label(key string) string {
	if c, ok := lookup(key); ok {
		return c.Label
	}
	return key
}

// Width returns the display width for key.
func Width(key string) int {
	if c, ok := lookup(key); ok {
		return c.Width
	}
	return DefaultWidth
}

func lookup(name string) (Column, bool) {
	for _, c := range Base {
		if strings.EqualFold(c.Key, name) {
			return c, true
		}
	}
	return Column{}, false
}
