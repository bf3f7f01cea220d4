package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/heroku/color"
)

// Symbol formats a value for emphasis. When color is disabled the value is
// quoted instead.
var Symbol = func(value string) string {
	if color.Enabled() {
		return Key(value)
	}
	return fmt.Sprintf("'%s'", value)
}

// SymbolF is Symbol for formatted values.
var SymbolF = func(format string, a ...interface{}) string {
	if color.Enabled() {
		return Key(format, a...)
	}
	return fmt.Sprintf("'%s'", fmt.Sprintf(format, a...))
}

// Map formats a map as sorted key=value pairs separated by separator, with
// every entry after the first indented by prefix.
var Map = func(m map[string]string, prefix, separator string) string {
	result := ""

	var keys []string
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		result += fmt.Sprintf("%s%s=%s%s", prefix, key, m[key], separator)
	}

	if color.Enabled() {
		return Key(strings.TrimSpace(result))
	}
	return fmt.Sprintf("'%s'", strings.TrimSpace(result))
}

// Step formats a phase banner.
var Step = func(format string, a ...interface{}) string {
	return color.CyanString("===> "+format, a...)
}

var Key = color.HiBlueString

var Prefix = color.CyanString

var Tip = color.New(color.FgGreen, color.Bold).SprintfFunc()

var Warn = color.New(color.FgYellow, color.Bold).SprintfFunc()

var Error = color.New(color.FgRed, color.Bold).SprintfFunc()

var Waiting = color.HiBlackString

var Working = color.HiBlueString

var Complete = color.GreenString

var ProgressBar = color.HiBlueString
