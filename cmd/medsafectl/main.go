package main

import "github.com/Gianmy02/MedSafe/cmd/medsafectl/cmd"

func main() {
	cmd.Execute()
}
