// Package main provides the rowlist command.
package main

import "github.com/arloliu/rowlist/internal/cli"

func main() {
	cli.Execute()
}
