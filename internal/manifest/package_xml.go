package manifest

import (
	"fmt"
	"strings"
)

// Options supplies the package.xml fields a rosbuild manifest does not have.
type Options struct {
	PackageName             string
	Version                 string
	ArchitectureIndependent bool
	Metapackage             bool
	BugtrackerURL           string
	Replaces                []string
	Conflicts               []string
}

// packageXML is the input of render.
type packageXML struct {
	Options
	Description  string
	Maintainers  []string
	Licenses     []string
	WebsiteURL   string
	Authors      []Person
	BuildDepends []string
	RunDepends   []string
	TestDepends  []string
	Exports      []Export
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// FromManifest converts a rosbuild manifest.xml into package.xml lines. All
// dependencies become build and run dependencies; test dependencies are
// listed but commented out for review.
func FromManifest(data []byte, opts Options) ([]string, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}

	lines := render(packageXML{
		Options:      opts,
		Description:  m.Description,
		Maintainers:  maintainersOf(m.Authors),
		Licenses:     m.Licenses,
		WebsiteURL:   m.URL,
		Authors:      m.Authors,
		BuildDepends: m.Depends,
		RunDepends:   m.Depends,
		TestDepends:  m.Depends,
		Exports:      m.Exports,
	})
	lines = CommentOutTags(lines, "test_depend")
	return MergeDuplicates(lines), nil
}

// FromStackManifest converts a rosbuild stack.xml into a metapackage whose run
// dependencies are packages.
func FromStackManifest(data []byte, packageName, version string, packages []string) ([]string, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}

	lines := render(packageXML{
		Options: Options{
			PackageName: packageName,
			Version:     version,
			Metapackage: true,
		},
		Description: m.Description,
		Maintainers: maintainersOf(m.Authors),
		Licenses:    m.Licenses,
		WebsiteURL:  m.URL,
		Authors:     m.Authors,
		RunDepends:  packages,
	})
	return MergeDuplicates(lines), nil
}

// maintainersOf lists every author as a maintainer. Maintainers without an
// address get an empty email attribute so the gap is visible in review.
func maintainersOf(authors []Person) []string {
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		out = append(out, indent(tag("maintainer", []string{attr("email", a.Email)}, a.Name), 1))
	}
	return out
}

func render(p packageXML) []string {
	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }

	add(
		"<package>",
		indent(tag("name", nil, p.PackageName), 1),
		indent(tag("version", nil, p.Version), 1),
		indent("<description>"+p.Description+"</description>", 1),
	)
	add(section(p.Maintainers)...)
	add("")
	add(section(simpleTags("license", p.Licenses))...)
	add("")
	add(indent(`<url type="website">`+textEscaper.Replace(p.WebsiteURL)+"</url>", 1))

	bugtracker := `<url type="bugtracker">` + textEscaper.Replace(p.BugtrackerURL) + "</url>"
	if p.BugtrackerURL == "" {
		bugtracker = commentOut(bugtracker)
	}
	add(indent(bugtracker, 1))
	add("")
	add(section(people("author", p.Authors))...)
	add("", indent("<buildtool_depend>catkin</buildtool_depend>", 1), "")
	add(indent("<!-- Dependencies needed to compile this pacakge. -->", 1))
	add(section(simpleTags("build_depend", p.BuildDepends))...)
	add("", indent("<!-- Dependencies needed after this package is compiled. -->", 1))
	add(section(simpleTags("run_depend", p.RunDepends))...)
	add("", indent("<!-- Dependencies needed only for running tests. -->", 1))
	add(section(simpleTags("test_depend", p.TestDepends))...)
	add("")
	add(section(simpleTags("replace", p.Replaces))...)
	add(section(simpleTags("conflict", p.Conflicts))...)
	add("", indent("<export>", 1))
	add(section(exports(p.Exports, p.ArchitectureIndependent, p.Metapackage))...)
	add(indent("</export>", 1), "</package>")
	return lines
}

// section keeps an empty section as one blank line.
func section(lines []string) []string {
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func simpleTags(name string, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, indent(tag(name, nil, v), 1))
	}
	return out
}

func people(name string, ps []Person) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		var attrs []string
		if p.Email != "" {
			attrs = append(attrs, attr("email", p.Email))
		}
		out = append(out, indent(tag(name, attrs, p.Name), 1))
	}
	return out
}

func exports(items []Export, archIndependent, metapackage bool) []string {
	var out []string
	for _, e := range items {
		attrs := make([]string, 0, len(e.Attrs))
		for _, a := range e.Attrs {
			attrs = append(attrs, attr(a.Name, a.Value))
		}
		out = append(out, indent(emptyTag(e.Tag, attrs), 2))
	}
	if archIndependent {
		out = append(out, indent("<architecture_independent/>", 2))
	}
	if metapackage {
		out = append(out, indent("<metapackage/>", 2))
	}
	return out
}

func tag(name string, attrs []string, contents string) string {
	return fmt.Sprintf("<%s>%s</%s>", spaceJoin(name, attrs), textEscaper.Replace(contents), name)
}

func emptyTag(name string, attrs []string) string {
	return fmt.Sprintf("<%s/>", spaceJoin(name, attrs))
}

func attr(key, value string) string {
	return fmt.Sprintf(`%s="%s"`, key, attrEscaper.Replace(value))
}

func spaceJoin(name string, attrs []string) string {
	return strings.Join(append([]string{name}, attrs...), " ")
}

func indent(s string, level int) string {
	return strings.Repeat("  ", level) + s
}

func commentOut(s string) string {
	return "<!-- " + s + " -->"
}

// CommentOutTags wraps every line holding a <name> element in an XML comment,
// keeping its indentation.
func CommentOutTags(lines []string, name string) []string {
	open := "<" + name
	out := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, open+">") || strings.HasPrefix(trimmed, open+" ") || strings.HasPrefix(trimmed, open+"/") {
			line = line[:len(line)-len(trimmed)] + commentOut(trimmed)
		}
		out[i] = line
	}
	return out
}

// MergeDuplicates removes adjacent duplicate lines.
func MergeDuplicates(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 && lines[i-1] == line {
			continue
		}
		out = append(out, line)
	}
	return out
}
