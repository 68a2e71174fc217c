// Command budgettool is the terminal client of the budget tool API.
package main

func main() {
	Execute()
}
