/*
Copyright © 2026 JACOB ARTHURS
*/
package main

import "github.com/jacobarthurs/awrlens/cmd"

func main() {
	cmd.Execute()
}
