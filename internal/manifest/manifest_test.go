package manifest

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/catkinize/internal/foundation/errors"
)

var updateGolden = flag.Bool("update-golden", false, "update golden test files")

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func assertGolden(t *testing.T, name string, lines []string) {
	t.Helper()
	goldenPath := filepath.Join("testdata", name)
	got := strings.Join(lines, "\n") + "\n"
	if *updateGolden {
		require.NoError(t, os.WriteFile(goldenPath, []byte(got), 0o600))
	}

	want, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, string(want), got)
}

func TestParseAuthors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Person
	}{
		{"single bare name", "Alice", []Person{{Name: "Alice"}}},
		{"name with email", "Alice/alice@example.com", []Person{{Name: "Alice", Email: "alice@example.com"}}},
		{
			name: "mixed list",
			in:   "Alice/alice@example.com, Bob,Carol/carol@example.com",
			want: []Person{
				{Name: "Alice", Email: "alice@example.com"},
				{Name: "Bob"},
				{Name: "Carol", Email: "carol@example.com"},
			},
		},
		{"surrounding whitespace", "\n    Alice ,  Bob\n  ", []Person{{Name: "Alice"}, {Name: "Bob"}}},
		{"too many slashes skipped", "Alice/a/b, Bob", []Person{{Name: "Bob"}}},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAuthors(tt.in))
		})
	}
}

func TestMergeDuplicates(t *testing.T) {
	in := []string{"a", "", "", "", "b", "b", "a", ""}
	assert.Equal(t, []string{"a", "", "b", "a", ""}, MergeDuplicates(in))
	assert.Empty(t, MergeDuplicates(nil))
}

func TestCommentOutTags(t *testing.T) {
	in := []string{
		"  <test_depend>roscpp</test_depend>",
		"<test_depend/>",
		"  <test_depends>x</test_depends>",
		"  <run_depend>roscpp</run_depend>",
	}
	want := []string{
		"  <!-- <test_depend>roscpp</test_depend> -->",
		"<!-- <test_depend/> -->",
		"  <test_depends>x</test_depends>",
		"  <run_depend>roscpp</run_depend>",
	}
	assert.Equal(t, want, CommentOutTags(in, "test_depend"))
}

func TestParse(t *testing.T) {
	m, err := Parse(readFixture(t, "manifest.xml"))
	require.NoError(t, err)

	assert.Equal(t, "long description goes here,", m.Description)
	assert.Equal(t, []string{"BSD"}, m.Licenses)
	assert.Equal(t, "http://pr.willowgarage.com/", m.URL)
	assert.Equal(t, []string{"pkgname", "common"}, m.Depends)
	require.Len(t, m.Exports, 1)
	assert.Equal(t, "cpp", m.Exports[0].Tag)
	require.Len(t, m.Exports[0].Attrs, 2)
	assert.Equal(t, "cflags", m.Exports[0].Attrs[0].Name)
	assert.Equal(t, "-L${prefix}/lib -lros", m.Exports[0].Attrs[1].Value)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		element string
	}{
		{"no description", "<package><author>a</author><license>BSD</license></package>", "description"},
		{"no author", "<package><description>d</description><license>BSD</license></package>", "author"},
		{"no license", "<package><description>d</description><author>a</author></package>", "license"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.xml))
			require.Error(t, err)

			ce, ok := errors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, errors.CategoryValidation, ce.Category())
			element, _ := ce.Context().GetString("element")
			assert.Equal(t, tt.element, element)
			assert.Contains(t, err.Error(), "<"+tt.element+">")
		})
	}
}

func TestParse_SyntaxErrorReportsLine(t *testing.T) {
	data := "<package>\n  <description>d</description>\n  <author>a</autor>\n</package>\n"

	_, err := Parse([]byte(data))
	require.Error(t, err)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryValidation, ce.Category())
	assert.True(t, ce.IsFatal())

	line, ok := ce.Context().GetInt("line")
	require.True(t, ok)
	assert.Equal(t, 3, line)
	text, _ := ce.Context().GetString("text")
	assert.Equal(t, "  <author>a</autor>", text)
}

func TestParse_ExportNamespaces(t *testing.T) {
	data := `<package xmlns:rb="http://ros.org/rosbuild">
  <description>d</description>
  <author>a</author>
  <license>BSD</license>
  <export xmlns:ros="http://ros.org/export">
    <cpp ros:flags="-lros" xmlns:foo="http://example.com/foo" foo:bar="y" plain="z"/>
    <rb:python path="src"/>
    <rosdoc ext:config="rosdoc.yaml"/>
  </export>
</package>`

	m, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, m.Exports, 3)

	assert.Equal(t, Export{Tag: "cpp", Attrs: []Attr{
		{Name: "ros:flags", Value: "-lros"},
		{Name: "xmlns:foo", Value: "http://example.com/foo"},
		{Name: "foo:bar", Value: "y"},
		{Name: "plain", Value: "z"},
	}}, m.Exports[0])
	assert.Equal(t, "rb:python", m.Exports[1].Tag)
	assert.Equal(t, []Attr{{Name: "ext:config", Value: "rosdoc.yaml"}}, m.Exports[2].Attrs)

	lines, err := FromManifest([]byte(data), Options{PackageName: "p", Version: "1.0.0"})
	require.NoError(t, err)
	assert.Contains(t, lines, `    <cpp ros:flags="-lros" xmlns:foo="http://example.com/foo" foo:bar="y" plain="z"/>`)
	assert.Contains(t, lines, `    <rb:python path="src"/>`)
}

func TestFromManifest_Golden(t *testing.T) {
	lines, err := FromManifest(readFixture(t, "manifest.xml"), Options{
		PackageName:   "my_pkg",
		Version:       "0.1.2",
		BugtrackerURL: "https://github.com/ros/my_pkg/issues",
	})
	require.NoError(t, err)
	assertGolden(t, "manifest.package.golden", lines)
}

func TestFromManifest_Options(t *testing.T) {
	data := `<package>
  <description>Tools &amp; things</description>
  <author>Bob</author>
  <license>BSD</license>
</package>`

	lines, err := FromManifest([]byte(data), Options{
		PackageName:             "tools",
		Version:                 "1.0.0",
		ArchitectureIndependent: true,
		Replaces:                []string{"old_tools"},
		Conflicts:               []string{"other_tools"},
	})
	require.NoError(t, err)

	assert.Contains(t, lines, "  <description>Tools &amp; things</description>")
	assert.Contains(t, lines, `  <maintainer email="">Bob</maintainer>`)
	assert.Contains(t, lines, "  <author>Bob</author>")
	assert.Contains(t, lines, `  <url type="website"></url>`)
	assert.Contains(t, lines, `  <!-- <url type="bugtracker"></url> -->`)
	assert.Contains(t, lines, "  <replace>old_tools</replace>")
	assert.Contains(t, lines, "  <conflict>other_tools</conflict>")
	assert.Contains(t, lines, "    <architecture_independent/>")
	assert.NotContains(t, lines, "    <metapackage/>")
	assert.Equal(t, "</package>", lines[len(lines)-1])

	for i := 1; i < len(lines); i++ {
		assert.NotEqual(t, lines[i-1], lines[i], "adjacent duplicate at line %d", i+1)
	}
}

func TestFromManifest_InvalidXML(t *testing.T) {
	lines, err := FromManifest([]byte("<package>"), Options{PackageName: "p", Version: "1"})
	require.Error(t, err)
	assert.Nil(t, lines)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestFromStackManifest_Golden(t *testing.T) {
	lines, err := FromStackManifest(readFixture(t, "stack.xml"), "navigation", "1.2.0", []string{"amcl", "move_base"})
	require.NoError(t, err)
	assertGolden(t, "stack.package.golden", lines)
}
