package patterns

import "strings"

// trimASCIISpace mirrors Python's str.strip(): trims leading/trailing
// Unicode whitespace, not just ASCII. strings.TrimSpace already does this.
func trimASCIISpace(s string) string {
	return strings.TrimSpace(s)
}
