// main.go - Application entrypoint
package main

import "github.com/danielsivyer4567/parcelmeter/cmd"

func main() {
	cmd.Execute()
}
