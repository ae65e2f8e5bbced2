// Package cmakelists rewrites a rosbuild CMakeLists.txt into its catkin form.
//
// Conversion is a three-stage, forward-only pipeline over the lines of the
// file:
//
//  1. ExpandBoost drops rosbuild_init and rosbuild_add_boost_directories
//     statements and expands each single-line rosbuild_link_boost call into
//     find_package, include_directories and target_link_libraries.
//  2. Rules.Apply renames the remaining rosbuild_ macros.
//  3. AddHeaderIfNeeded prepends the catkin project header when the file has
//     no catkin_package call.
//
// The package does no I/O. Callers read the file into lines, call Convert and
// write the result. A rosbuild_link_boost call that spans several lines is
// rejected with an *UnrecognizedInvocationError and no output.
package cmakelists
