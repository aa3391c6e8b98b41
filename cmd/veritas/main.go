package main

import "github.com/veritas-dev/veritas/internal/cli"

func main() {
	cli.Execute()
}
