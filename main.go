// main.go - Application entry point
package main

import "osm-tile-plotter/cmd"

func main() {
	cmd.Execute()
}
