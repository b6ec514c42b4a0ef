package elevutils

import (
	_ "embed"
	"flag"
	"fmt"
	"os"
	"strings"
)

//go:generate sh -c "printf %s $(git rev-parse HEAD) > githash.txt"
//go:embed githash.txt
var gitHash string

func GetGitHash() string {
	hash := strings.TrimSpace(gitHash)
	if hash == "" {
		return "unknown"
	}
	return hash
}

type CmdArgs struct {
	ConfigPath string
	EnvPath    string
	Identifier string
}

// ProcessCmdArgs parses the controller flags. -help and -version exit.
func ProcessCmdArgs(program string, description string) CmdArgs {
	help := flag.Bool("help", false, "Show Help Window")
	version := flag.Bool("version", false, "Show Version")
	configPath := flag.String("config", "", "Path to the YAML config file. Defaults to built in settings")
	envPath := flag.String("env", ".env", "Path to a .env file with overrides. Ignored if missing")
	identifier := flag.String("id", "", "Set the identifier of the controller. Overrides config, defaults to random string")

	flag.Parse()

	if *version {
		fmt.Println("Version:", GetGitHash())
		os.Exit(0)
	}

	if *help {
		fmt.Printf("Usage: ./%s [OPTIONS]\n", program)
		fmt.Println(description)
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	return CmdArgs{
		ConfigPath: *configPath,
		EnvPath:    *envPath,
		Identifier: *identifier,
	}
}
