package cmakelists

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

var (
	commentRx = regexp.MustCompile(`#.*`)

	// linkBoostRx is anchored at the start only; text after the closing
	// parenthesis is ignored.
	linkBoostRx = regexp.MustCompile(`^\s*` + MarkerLinkBoost + `\((\S+)\s+([^)]+)\)`)
)

// UnrecognizedInvocationError reports a rosbuild_link_boost statement that does
// not fit on a single line or is otherwise malformed.
type UnrecognizedInvocationError struct {
	Line int    // 1-based line number in the input
	Text string // raw input line, comment included
}

func (e *UnrecognizedInvocationError) Error() string {
	return fmt.Sprintf("could not recognize %s statement starting at line %d (maybe multi-line?): %q",
		MarkerLinkBoost, e.Line, e.Text)
}

// BoostLink is a decoded single-line rosbuild_link_boost call.
type BoostLink struct {
	Target     string
	Components string
}

// Lines returns the catkin statements replacing the call.
func (b BoostLink) Lines() []string {
	return []string{
		fmt.Sprintf("find_package(Boost REQUIRED COMPONENTS %s)", b.Components),
		"include_directories(${Boost_INCLUDE_DIRS})",
		fmt.Sprintf("target_link_libraries(%s ${Boost_LIBRARIES})", b.Target),
	}
}

// StripComment removes everything from the first '#' to the end of the line.
// A '#' inside a quoted argument is treated the same way.
func StripComment(line string) string {
	return commentRx.ReplaceAllString(line, "")
}

// ParseBoostLink decodes a comment-stripped rosbuild_link_boost line.
func ParseBoostLink(code string) (BoostLink, bool) {
	m := linkBoostRx.FindStringSubmatch(code)
	if m == nil {
		return BoostLink{}, false
	}
	return BoostLink{Target: m[1], Components: m[2]}, true
}

// expander walks the input once and keeps counters for reporting.
type expander struct {
	dropped  int
	expanded int
}

func (e *expander) expand(lines []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for i, line := range lines {
			code := StripComment(line)
			switch {
			case strings.Contains(code, MarkerAddBoostDirectories), strings.Contains(code, MarkerInit):
				e.dropped++
			case strings.Contains(code, MarkerLinkBoost):
				link, ok := ParseBoostLink(code)
				if !ok {
					yield("", &UnrecognizedInvocationError{Line: i + 1, Text: line})
					return
				}
				e.expanded++
				for _, out := range link.Lines() {
					if !yield(out, nil) {
						return
					}
				}
			default:
				if !yield(line, nil) {
					return
				}
			}
		}
	}
}

// ExpandBoost lazily rewrites the boost-related rosbuild statements in lines.
// The sequence yields a non-nil error at most once, as its final element.
func ExpandBoost(lines []string) iter.Seq2[string, error] {
	return (&expander{}).expand(lines)
}
