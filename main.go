package main

import "github.com/cardiosignal/ecg-metrics/cmd"

func main() {
	cmd.Execute()
}
