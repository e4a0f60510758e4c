// Package core runs the external coverage tool for one operation.
//
// An invocation is a single linear sequence:
//
//  1. Validate the installation, settings file and coverage inputs
//  2. Assemble the jtestcov command line
//  3. Recreate the scratch directory <buildDir>/covtool
//  4. Run the tool with inherited standard streams and wait for it
//  5. Hand the scratch directory to the operation for result handling
//
// Operation-specific behavior (sub-command, trailing flags, extra
// preconditions, post-run handling) lives behind the Operation interface.
// Every failure is an *Error whose message comes from the messages catalog.
package core
