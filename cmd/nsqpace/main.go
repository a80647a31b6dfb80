package main

import "github.com/zeusync/nsqcore/internal/cli"

func main() {
	cli.Execute()
}
