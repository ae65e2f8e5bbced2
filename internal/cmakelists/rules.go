package cmakelists

import "strings"

// Markers recognized in the rosbuild dialect.
const (
	MarkerAddBoostDirectories = "rosbuild_add_boost_directories"
	MarkerInit                = "rosbuild_init"
	MarkerLinkBoost           = "rosbuild_link_boost"
	MarkerAddGtest            = "rosbuild_add_gtest"
	MarkerAddPyunit           = "rosbuild_add_pyunit"
	MarkerPrefix              = "rosbuild_"

	// MarkerCatkinPackage marks a file that already declares its catkin package.
	MarkerCatkinPackage = "catkin_package"
)

// Rule replaces every occurrence of Pattern with Replacement.
type Rule struct {
	Pattern     string
	Replacement string
}

// Rules is an ordered list of replacements. Each rule operates on the output
// of the previous one.
type Rules []Rule

// DefaultRules renames the rosbuild test macros before the generic prefix is
// stripped, so rosbuild_add_gtest becomes catkin_add_gtest and not add_gtest.
var DefaultRules = Rules{
	{Pattern: MarkerAddGtest, Replacement: "catkin_add_gtest"},
	{Pattern: MarkerAddPyunit, Replacement: "catkin_add_nosetests"},
	{Pattern: MarkerPrefix, Replacement: ""},
}

// Apply runs every rule over line in order.
func (r Rules) Apply(line string) string {
	for _, rule := range r {
		line = strings.ReplaceAll(line, rule.Pattern, rule.Replacement)
	}
	return line
}

// RewriteLine applies DefaultRules to a single line.
func RewriteLine(line string) string {
	return DefaultRules.Apply(line)
}
