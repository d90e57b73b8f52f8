package main

import "github.com/funvibe/clasp/pkg/cli"

func main() {
	cli.Run()
}
