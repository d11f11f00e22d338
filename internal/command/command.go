// Package command resolves console and capture command templates against a
// parsed console URL.
//
// A template is a command line with {placeholder} tokens. The fixed
// vocabulary ({host}, {port}, {url}, {name}, {project}, {display},
// {pcap_file}) takes precedence over query parameters; any other
// placeholder is looked up in the URL query. Doubled braces ({{ and }})
// produce literal braces. The template is resolved in a single pass so
// substituted values are never rescanned for placeholders.
package command

import (
	"strconv"
	"strings"

	"github.com/mfulz/gns3launch/internal/consoleurl"
	"github.com/mfulz/gns3launch/internal/launcherr"
)

const (
	PlaceholderHost      = "host"
	PlaceholderPort      = "port"
	PlaceholderURL       = "url"
	PlaceholderName      = "name"
	PlaceholderProject   = "project"
	PlaceholderDisplay   = "display"
	PlaceholderPcapFile  = "pcap_file"
	PlaceholderProjectID = "project_id"
	PlaceholderNodeID    = "node_id"

	// VNCBasePort is the TCP port of VNC display :0.
	VNCBasePort = 5900

	defaultCaptureName = "packet capture"
)

// Options controls capture specific substitutions.
type Options struct {
	// Capture enables {pcap_file}. It is set when resolving the packet
	// capture reader command.
	Capture bool
	// PcapFile is the capture file path substituted (quoted) for {pcap_file}.
	PcapFile string
}

type segment struct {
	literal string
	key     string
	isKey   bool
}

// Resolve substitutes every placeholder of template and trims the result.
func Resolve(template string, u *consoleurl.URL, opts Options) (string, error) {
	segments, err := tokenize(template)
	if err != nil {
		return "", err
	}

	for _, seg := range segments {
		if !seg.isKey {
			continue
		}
		switch seg.key {
		case PlaceholderDisplay:
			if u.Scheme != consoleurl.SchemeVNC {
				return "", launcherr.Binding("The {display} parameter is only supported for the gns3+vnc protocol scheme")
			}
		case PlaceholderPcapFile:
			if !opts.Capture {
				return "", launcherr.Binding("The {pcap_file} parameter is only supported for the gns3+pcap protocol scheme")
			}
		}
	}

	var b strings.Builder
	for _, seg := range segments {
		if !seg.isKey {
			b.WriteString(seg.literal)
			continue
		}
		value, err := lookup(seg.key, u, opts)
		if err != nil {
			return "", err
		}
		b.WriteString(value)
	}
	return strings.TrimSpace(b.String()), nil
}

func lookup(key string, u *consoleurl.URL, opts Options) (string, error) {
	switch key {
	case PlaceholderHost:
		return u.Host, nil
	case PlaceholderPort:
		return u.PortString(), nil
	case PlaceholderURL:
		return u.String(), nil
	case PlaceholderName:
		if opts.Capture {
			return u.Param(PlaceholderName, defaultCaptureName), nil
		}
		return escapeQuotes(u.Param(PlaceholderName, "")), nil
	case PlaceholderProject:
		return escapeQuotes(u.Param(PlaceholderProject, "")), nil
	case PlaceholderDisplay:
		if !u.HasPort {
			return "", launcherr.Binding("The {display} parameter requires a port in the URL")
		}
		return strconv.Itoa(int(u.Port) - VNCBasePort), nil
	case PlaceholderPcapFile:
		return `"` + opts.PcapFile + `"`, nil
	}
	if v, ok := u.Params[key]; ok {
		return v, nil
	}
	return "", launcherr.Binding("'%s' could not be replaced in command", key)
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// tokenize splits template into literal text and placeholder keys.
func tokenize(template string) ([]segment, error) {
	var (
		segments []segment
		lit      strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return nil, launcherr.Binding("Single '{' encountered in command '%s'", template)
			}
			key := template[i+1 : i+1+end]
			if key == "" || strings.Contains(key, "{") {
				return nil, launcherr.Binding("Invalid placeholder '{%s}' in command '%s'", key, template)
			}
			flush()
			segments = append(segments, segment{key: key, isKey: true})
			i += end + 1
		case c == '}':
			return nil, launcherr.Binding("Single '}' encountered in command '%s'", template)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segments, nil
}

// Placeholders returns the placeholder keys used by template, in order of
// first appearance.
func Placeholders(template string) ([]string, error) {
	segments, err := tokenize(template)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var keys []string
	for _, seg := range segments {
		if seg.isKey && !seen[seg.key] {
			seen[seg.key] = true
			keys = append(keys, seg.key)
		}
	}
	return keys, nil
}
