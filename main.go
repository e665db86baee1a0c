package main

import "github.com/StinkyLord/sbom-reconcile/cmd"

func main() {
	cmd.Execute()
}
