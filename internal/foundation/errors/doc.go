// Package errors provides the classified error primitives used across catkinize.
//
// Every failure that reaches the command line is a ClassifiedError carrying a
// category, a severity and structured context. The CLIErrorAdapter turns the
// category into a process exit code and the context into a readable message.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryConversion, "unrecognized rosbuild_link_boost statement").
//		WithContext("file", path).
//		WithContext("line", 12).
//		WithCause(parseErr).
//		Build()
package errors
