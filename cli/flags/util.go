package flags

import (
	"strings"
)

// eachName calls fn for every comma-separated name of the flag.
func eachName(longName string, fn func(string)) {
	parts := strings.Split(longName, ",")
	for _, name := range parts {
		name = strings.Trim(name, " ")
		fn(name)
	}
}
