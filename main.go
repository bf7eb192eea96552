package main

import "github.com/fabito/boundary-purger/cmd"

func main() {
	cmd.Execute()
}
