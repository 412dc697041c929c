// Package logs reads the JSON run log for the `teasers logs` command.
//
// Last returns the final lines of the file without loading it whole, Follow
// polls for appended lines until its context ends, and Filter narrows records
// to one catalog entry or a minimum level.
package logs
