// Command template-console runs the template plugin against a terminal so
// commands can be tried without a bot account.
package main

func main() {
	Execute()
}
