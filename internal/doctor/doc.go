// Package doctor checks that the local machine can run cspace.
//
// The checks cover:
//
//   - Tools: gh is installed and authenticated.
//   - Configuration: the config file parses, and any load warnings.
//   - Terminal: the configured terminfo entry exists locally, and the
//     clipboard used by "create --copy" is available.
//
// Each [Issue] carries a severity. Only [SeverityError] issues make
// [Run] fail; warnings degrade optional features.
package doctor
