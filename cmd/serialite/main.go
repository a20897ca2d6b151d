/*
Copyright © 2025 The serialite Authors
*/
package main

import "github.com/mbedsys/serialite/cmd"

func main() {
	cmd.Execute()
}
