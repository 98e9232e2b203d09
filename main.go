package main

import "github.com/theirongolddev/quotaclock/cmd"

func main() {
	cmd.Execute()
}
