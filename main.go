package main

import "github.com/rialms/scottspence.me/cmd"

func main() {
	cmd.Execute()
}
