package main

import "github.com/racelytics/f1-analysis-service-go/cmd"

func main() {
	cmd.Execute()
}
