package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/mj1618/hintnav/cmd"
)

func main() {
	cmd.Execute()
}
