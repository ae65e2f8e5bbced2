// Package manifest converts rosbuild manifest.xml and stack.xml files into
// catkin package.xml files.
//
// The conversion copies what the rosbuild files know (description, authors,
// licenses, website, dependencies and exports) and fills in the rest from
// Options. Output is a slice of lines without terminators, ready for
// textfile.WriteFile.
package manifest
