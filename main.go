package main

import "github.com/Alturino/ordering/cmd"

func main() {
	cmd.Start()
}
