// Package script loads test suites written as data files.
//
// A suite file is YAML (.yaml, .yml) or CUE (.cue) with this shape:
//
//	name: file_under_test
//	description: "collaborator wiring"
//	load:
//	  - _shared.yaml
//	stubs: [collaborator]
//	vars:
//	  greeting: hello
//	tests:
//	  returnsFour_ShouldReturnFour:
//	    - eval: { fn: returns_four, into: four }
//	    - assert_integer_equals: [4, $four]
//	  doesSomethingImportant:
//	    - eval: { fn: does_something_important }
//	    - assert_called: { stub: collaborator, method: importantFunction, args: [$greeting, world] }
//
// Tests keep their declaration order. Each step has exactly one key:
//
//   - set: {name: value, ...} assigns variables
//   - eval: {fn, args, into} calls a fixture from the Registry
//   - invoke: {stub, method, args, bundle} records a call on a stub
//   - assert_strict, assert_coerced, assert_integer_equals: [expected, actual]
//   - assert_called: {stub, method, args} verifies a recorded call
//   - run: name invokes another test body, own or inherited
//   - log: text writes a message to the logger and to Options.Output
//
// Strings starting with $ refer to variables; $$ escapes a literal dollar
// and $undefined is assert.Undefined. Integer literals load as int64 and
// other numbers as float64.
//
// Files listed under load are read first, relative to the including file.
// Their tests become the prototype of the loaded suite: reachable through
// run, never adapted on their own. Their vars and stubs sit beneath the
// including file's. Discovery skips files whose name starts with an
// underscore, so shared files are not run twice.
package script
