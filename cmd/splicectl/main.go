// Command splicectl drives pool workloads from the command line and
// reports what the pool did.
package main

func main() {
	execute()
}
