// Package scan parses whole reminder files line by line.
//
// A Scanner reads an io.Reader, parses every line with the parser package
// and collects the outcome into a Report: accepted rules, rejected lines
// with their 1-based line numbers, and a count of lines that carried no
// schedule at all. A bad line never aborts the scan.
//
// Lines are parsed by a small goroutine pool; results are always reported
// in original line order.
package scan
