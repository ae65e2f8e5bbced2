package cmakelists

// Result is the outcome of a conversion.
type Result struct {
	Lines       []string
	Dropped     int  // rosbuild_init and rosbuild_add_boost_directories lines removed
	Expanded    int  // rosbuild_link_boost calls expanded
	Renamed     int  // lines changed by the rename rules
	HeaderAdded bool // catkin header prepended
}

// Converter runs the conversion pipeline with a fixed rule list.
type Converter struct {
	rules Rules
}

// NewConverter creates a converter. A nil rule list selects DefaultRules.
func NewConverter(rules Rules) *Converter {
	if rules == nil {
		rules = DefaultRules
	}
	return &Converter{rules: rules}
}

// Convert converts lines for project. On error the result is nil: a file is
// either converted completely or not at all.
func (c *Converter) Convert(project string, lines []string) (*Result, error) {
	exp := &expander{}
	res := &Result{}

	var rewritten []string
	for line, err := range exp.expand(lines) {
		if err != nil {
			return nil, err
		}
		out := c.rules.Apply(line)
		if out != line {
			res.Renamed++
		}
		rewritten = append(rewritten, out)
	}

	res.Dropped = exp.dropped
	res.Expanded = exp.expanded
	res.HeaderAdded = !HasCatkinPackage(rewritten)
	res.Lines = AddHeaderIfNeeded(rewritten, HeaderLines(project))
	return res, nil
}

// Convert converts the lines of a rosbuild CMakeLists.txt using DefaultRules.
func Convert(project string, lines []string) ([]string, error) {
	res, err := NewConverter(nil).Convert(project, lines)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}
