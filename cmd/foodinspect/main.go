package main

import (
	"foodinspect/cmd/foodinspect/cmd"
	_ "time/tzdata"
)

func main() {
	cmd.Execute()
}
