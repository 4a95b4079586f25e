// Command ipsctl applies, inspects, validates, and creates IPS patches.
package main

func main() {
	execute()
}
