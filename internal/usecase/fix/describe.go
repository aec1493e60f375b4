package fix

import (
	"fmt"
	"regexp"
	"strings"
)

// genericParamDescriptions maps conventional generic type parameter names to
// human-readable descriptions for @param annotations.
var genericParamDescriptions = map[string]string{
	"T":  "the type parameter",
	"E":  "the element type parameter",
	"K":  "the key type parameter",
	"V":  "the value type parameter",
	"C":  "the command type parameter",
	"CH": "the command handler type parameter",
	"F":  "the field type parameter",
	"VO": "the value object type parameter",
	"S":  "the state type parameter",
	"S1": "the source state type parameter",
	"S2": "the target state type parameter",
	"P":  "the port type parameter",
	"O":  "the observer type parameter",
	"R":  "the return type parameter",
}

// genericFallbackDescription covers type parameter names outside the
// conventional set.
const genericFallbackDescription = "the type parameter"

// GenericParamDescription returns the annotation text for a generic type
// parameter name.
func GenericParamDescription(name string) string {
	if desc, ok := genericParamDescriptions[name]; ok {
		return desc
	}
	return genericFallbackDescription
}

// returnHints are probed against the declaration line in priority order;
// the first type-name substring present picks the phrase.
var returnHints = []struct {
	typeName string
	phrase   string
}{
	{"boolean", "true if successful, false otherwise"},
	{"String", "the string representation"},
	{"List", "the list of items"},
	{"Optional", "an optional containing the result"},
}

// ReturnDescription derives @return annotation text from a method
// declaration line.
func ReturnDescription(declLine string) string {
	for _, hint := range returnHints {
		if strings.Contains(declLine, hint.typeName) {
			return hint.phrase
		}
	}
	return "the result of the operation"
}

var methodNamePattern = regexp.MustCompile(`(\w+)\s*\(`)

// MethodSummary derives a one-line doc summary from a method declaration
// line using naming conventions. Returns false when the line contains no
// call-shaped identifier, in which case synthesis is skipped for the issue.
func MethodSummary(declLine string) (string, bool) {
	m := methodNamePattern.FindStringSubmatch(declLine)
	if m == nil {
		return "", false
	}
	name := m[1]

	switch {
	case strings.HasPrefix(name, "get"):
		return fmt.Sprintf("Gets the %s.", strings.ToLower(name[3:])), true
	case strings.HasPrefix(name, "set"):
		return fmt.Sprintf("Sets the %s.", strings.ToLower(name[3:])), true
	case strings.HasPrefix(name, "is"):
		return fmt.Sprintf("Checks if %s.", strings.ToLower(name[2:])), true
	case strings.HasPrefix(name, "has"):
		return fmt.Sprintf("Checks if %s.", strings.ToLower(name[3:])), true
	default:
		return fmt.Sprintf("Performs %s operation.", name), true
	}
}
