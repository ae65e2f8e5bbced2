package cmakelists

import (
	"fmt"
	"strings"
)

const headerTemplate = `# http://ros.org/doc/groovy/api/catkin/html/user_guide/supposed.html
cmake_minimum_required(VERSION 2.8.3)
project(%s)
# Load catkin and all dependencies required for this package
find_package(catkin REQUIRED)

# catkin_package(
#    INCLUDE_DIRS include
#    LIBRARIES ${PROJECT_NAME}
#    DEPENDS otherpkg)

# include_directories(include ${Boost_INCLUDE_DIR} ${catkin_INCLUDE_DIRS})`

// HeaderLines returns the catkin boilerplate for project.
func HeaderLines(project string) []string {
	return strings.Split(fmt.Sprintf(headerTemplate, project), "\n")
}

// HasCatkinPackage reports whether any line mentions catkin_package.
func HasCatkinPackage(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, MarkerCatkinPackage) {
			return true
		}
	}
	return false
}

// AddHeaderIfNeeded prepends header and a blank line unless lines already
// declare a catkin package. The input slice is never modified.
func AddHeaderIfNeeded(lines, header []string) []string {
	if HasCatkinPackage(lines) {
		return lines
	}
	out := make([]string, 0, len(header)+1+len(lines))
	out = append(out, header...)
	out = append(out, "")
	return append(out, lines...)
}
