package main

import "github.com/amterp/teams/internal/cli"

func main() {
	cli.Run()
}
