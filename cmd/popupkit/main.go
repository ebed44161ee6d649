// Package main provides the CLI entrypoint for popupkit.
package main

func main() {
	Execute()
}
