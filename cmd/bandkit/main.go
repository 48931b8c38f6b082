// Package main provides the bandkit CLI for rendering banded reports
// from record streams.
package main

func main() {
	Execute()
}
