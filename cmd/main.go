package main

import "github.com/trunov/thumbd/internal/cli"

func main() {
	cli.Execute()
}
