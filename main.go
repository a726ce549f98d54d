package main

import "github.com/cratedex/cratedex/cmd"

func main() {
	cmd.Execute()
}
