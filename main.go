package main

import "github.com/elotmaniaya12/Saas-User-Growth-Analyzer/cmd"

func main() {
	cmd.Execute()
}
