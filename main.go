package main

import "github.com/robalobadob/craftle/internal/cli"

func main() {
	cli.Execute()
}
