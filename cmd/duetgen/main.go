// duetgen generates the identity, coding key and storage conformances of
// the entities of a project.
//
//	duetgen generate            # print the generated files
//	duetgen generate --perform  # write them
//	duetgen models              # list the collected entities
//	duetgen watch               # regenerate on every change
package main

func main() {
	Execute()
}
