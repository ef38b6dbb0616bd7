package common

// This package contains the error vocabulary and argument validation shared by the
// namespace tree and the command interpreter.

// Note: a ValidationUtils only holds its length limit; one instance can serve any number of parses.
