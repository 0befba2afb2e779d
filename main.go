// ./main.go
package main

import (
	"github.com/xkilldash9x/hogflix-traffic/cmd"
)

func main() {
	cmd.Execute()
}
