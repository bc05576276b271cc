package main

import "github.com/shopsight/insights/cmd"

func main() {
	cmd.Execute()
}
