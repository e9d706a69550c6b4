package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/bnema/gateway-core/internal/adapters/in/cli"
)

var (
	version string
	commit  string
	date    string
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	os.Exit(cli.Execute())
}
