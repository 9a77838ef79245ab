package buildspec

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

var (
	// hashPlaceholder matches the content hash tokens accepted in output
	// filenames, with an optional length suffix such as [contenthash:8]
	hashPlaceholder = regexp.MustCompile(`(?i)\[(contenthash|chunkhash|hash)(:\d+)?\]`)

	// bareExtension matches a plain extension such as .css or css
	bareExtension = regexp.MustCompile(`^\.?([A-Za-z0-9]+)$`)
)

// HasHashPlaceholder reports whether the output filename pattern embeds a content hash.
func HasHashPlaceholder(pattern string) bool {
	return hashPlaceholder.MatchString(pattern)
}

// ReplaceHashPlaceholders rewrites every hash token in pattern to repl.
func ReplaceHashPlaceholders(pattern, repl string) string {
	return hashPlaceholder.ReplaceAllLiteralString(pattern, repl)
}

// maxExtensions bounds how many extensions a single predicate may expand to.
const maxExtensions = 64

// regexLiteral matches the /pattern/flags form of a JavaScript regex.
var regexLiteral = regexp.MustCompile(`^/(.+)/([a-z]*)$`)

// parseExtensions returns the extensions claimed by a match pattern, lower
// case with a leading dot, in declaration order without duplicates. Regular
// expression predicates are expanded: \.jsx?$, \.(png|jpe?g)$ and \.s[ac]ss$
// are all accepted.
func parseExtensions(pattern string) ([]string, bool) {
	pattern = strings.TrimSpace(pattern)
	if m := regexLiteral.FindStringSubmatch(pattern); m != nil {
		pattern = m[1]
	}
	if pattern == "" {
		return nil, false
	}

	var names []string
	if body, ok := strings.CutPrefix(pattern, `\.`); ok {
		body = strings.TrimSuffix(body, "$")
		x := &extExpander{src: body}
		expanded, ok := x.alternation()
		if !ok || x.pos != len(x.src) {
			return nil, false
		}
		names = expanded
	} else if m := bareExtension.FindStringSubmatch(pattern); m != nil {
		names = []string{m[1]}
	} else {
		return nil, false
	}

	exts := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, false
		}
		ext := "." + strings.ToLower(name)
		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	return exts, true
}

// extExpander enumerates the strings matched by the small regex subset used
// in extension predicates: literals, (a|b) and (?:a|b) groups, [abc] and
// [a-c] classes, and the ? quantifier.
type extExpander struct {
	src string
	pos int
}

func (x *extExpander) alternation() ([]string, bool) {
	out, ok := x.sequence()
	if !ok {
		return nil, false
	}
	for x.pos < len(x.src) && x.src[x.pos] == '|' {
		x.pos++
		alt, ok := x.sequence()
		if !ok {
			return nil, false
		}
		out = append(out, alt...)
		if len(out) > maxExtensions {
			return nil, false
		}
	}
	return out, true
}

func (x *extExpander) sequence() ([]string, bool) {
	out := []string{""}
	for x.pos < len(x.src) && x.src[x.pos] != '|' && x.src[x.pos] != ')' {
		options, ok := x.atom()
		if !ok {
			return nil, false
		}
		if x.pos < len(x.src) && x.src[x.pos] == '?' {
			x.pos++
			options = append(options, "")
		}

		next := make([]string, 0, len(out)*len(options))
		for _, prefix := range out {
			for _, opt := range options {
				next = append(next, prefix+opt)
			}
		}
		if len(next) > maxExtensions {
			return nil, false
		}
		out = next
	}
	return out, true
}

func (x *extExpander) atom() ([]string, bool) {
	c := x.src[x.pos]
	switch {
	case c == '(':
		x.pos++
		if strings.HasPrefix(x.src[x.pos:], "?:") {
			x.pos += 2
		}
		inner, ok := x.alternation()
		if !ok || x.pos >= len(x.src) || x.src[x.pos] != ')' {
			return nil, false
		}
		x.pos++
		return inner, true
	case c == '[':
		return x.class()
	case isExtChar(c):
		x.pos++
		return []string{string(c)}, true
	default:
		return nil, false
	}
}

func (x *extExpander) class() ([]string, bool) {
	end := strings.IndexByte(x.src[x.pos:], ']')
	if end < 2 {
		return nil, false
	}
	body := x.src[x.pos+1 : x.pos+end]
	x.pos += end + 1

	var out []string
	for i := 0; i < len(body); i++ {
		lo := body[i]
		if !isExtChar(lo) {
			return nil, false
		}
		hi := lo
		if i+2 < len(body) && body[i+1] == '-' {
			hi = body[i+2]
			if !isExtChar(hi) || hi < lo {
				return nil, false
			}
			i += 2
		}
		for ch := lo; ch <= hi; ch++ {
			if !slices.Contains(out, string(ch)) {
				out = append(out, string(ch))
			}
		}
	}
	return out, len(out) <= maxExtensions
}

func isExtChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func fileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
