// Command fsa builds finite-state automata from the command line, runs
// input through them and renders their diagrams.
package main

func main() {
	Execute()
}
