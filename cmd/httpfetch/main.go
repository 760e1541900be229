package main

import "github.com/assetnote/httpfetch/cmd/httpfetch/cmd"

func main() {
	cmd.Execute()
}
