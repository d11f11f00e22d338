// Package platform provides the iplatform.Ops implementations. New returns
// the implementation for the OS the binary was built for.
package platform

import (
	"strings"
	"unicode"
)

// splitProgram splits a command line into its program and the remainder.
// A leading double quoted program may contain spaces; the quotes are
// removed.
func splitProgram(commandLine string) (program, rest string) {
	s := strings.TrimLeftFunc(commandLine, unicode.IsSpace)
	if s == "" {
		return "", ""
	}
	if s[0] == '"' {
		if end := strings.IndexByte(s[1:], '"'); end >= 0 {
			return s[1 : end+1], s[end+2:]
		}
		return s[1:], ""
	}
	if end := strings.IndexFunc(s, unicode.IsSpace); end >= 0 {
		return s[:end], s[end:]
	}
	return s, ""
}

// relocateProgram replaces the program of commandLine by path when the
// program's base name equals name (case insensitive). path is quoted when
// it contains spaces.
func relocateProgram(commandLine, name, path string) string {
	program, rest := splitProgram(commandLine)
	base := program
	if i := strings.LastIndexAny(base, `\/`); i >= 0 {
		base = base[i+1:]
	}
	if !strings.EqualFold(base, name) || program == path {
		return commandLine
	}
	if strings.ContainsAny(path, " \t") {
		path = `"` + path + `"`
	}
	return path + rest
}

// mergeEnv returns environ with extra applied on top. Keys in extra replace
// existing entries.
func mergeEnv(environ []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return environ
	}
	out := make([]string, 0, len(environ)+len(extra))
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := extra[key]; replaced {
			continue
		}
		out = append(out, kv)
	}
	for k, v := range extra {
		out = append(out, k+"="+v)
	}
	return out
}

func hasEnv(environ []string, key string) bool {
	prefix := key + "="
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}
	return false
}
