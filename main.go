// ./main.go
package main

import (
	"github.com/magidevv/authflows/cmd"
)

func main() {
	cmd.Execute()
}
