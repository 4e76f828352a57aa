package fpgakit

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gookit/color"
)

// printHelp prints the commands table
func printHelp() {
	colSuccess.Println("Usage: fpgakit <command> [arguments]")
	fmt.Println()
	color.Info.Println("Available Commands:")

	type cmdInfo struct {
		Cmd  string
		Args string
		Desc string
	}
	cmds := []cmdInfo{
		{"version, --version", "", "Version information"},
		{"verify, v", "[pkg...]", "Verify installed toolchain packages and versions"},
		{"install, i", "<pkg...>", "Install package(s) from the release mirror"},
		{"uninstall, r", "<pkg...>", "Uninstall package(s)"},
		{"env", "", "Print the composed toolchain environment"},
		{"system", "<lsusb|lsftdi>", "Inspect connected FPGA hardware"},
		{"upgrade-check, u", "", "Check the mirror for a newer fpgakit release"},
		{"publish", "<pkg> <version> <platform> <archive>", "Upload a package release to the mirror bucket"},
	}

	maxLen := 0
	for _, c := range cmds {
		length := len(c.Cmd) + len(c.Args)
		if c.Args != "" {
			length++
		}
		if length > maxLen {
			maxLen = length
		}
	}
	columnWidth := maxLen + 4

	for _, c := range cmds {
		var usageString string
		if c.Args != "" {
			usageString = fmt.Sprintf("  %s %s", c.Cmd, c.Args)
		} else {
			usageString = fmt.Sprintf("  %s", c.Cmd)
		}

		fmt.Print("  ")
		color.Bold.Print(c.Cmd)
		if c.Args != "" {
			fmt.Print(" ")
			color.Cyan.Print(c.Args)
		}

		pad := columnWidth - len(usageString)
		if pad < 1 {
			pad = 1
		}
		fmt.Print(strings.Repeat(" ", pad))
		color.Info.Println(c.Desc)
	}

	fmt.Println()
}

func printVersion() {
	fmt.Printf("fpgakit %s (%s, built %s)\n", version, platformString(), buildDate)
}

// distributedPackages is the default verification set: every package
// the distribution pins a version range for, in stable order.
func distributedPackages() []string {
	names := make([]string, 0, len(distPackages))
	for name := range distPackages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cmdVerify(cfg *Config, pkgs []string) error {
	if len(pkgs) == 0 {
		pkgs = distributedPackages()
	}
	for _, name := range pkgs {
		if _, ok := packageTable[name]; !ok {
			return fmt.Errorf("unknown package: %s", name)
		}
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	if !resolvePackages(cfg, pkgs, profile.installedVersions(), distPackages) {
		return fmt.Errorf("toolchain verification failed")
	}

	colSuccess.Println("All packages verified")
	return nil
}

func cmdEnv(cfg *Config) {
	baseDirs := baseDirTable(cfg)
	composeEnvironment(baseDirs, binDirTable(baseDirs), osName).Print()
}

func cmdSystem(cfg *Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: fpgakit system <lsusb|lsftdi>")
	}

	// Hardware utilities need the toolchain environment applied.
	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	if !resolvePackages(cfg, []string{PkgSystem}, profile.installedVersions(), distPackages) {
		return fmt.Errorf("toolchain verification failed")
	}

	tool := newSystemTool()
	switch args[0] {
	case "lsusb":
		return tool.lsusb(cfg)
	case "lsftdi":
		return tool.lsftdi(cfg)
	default:
		return fmt.Errorf("unknown system command: %s", args[0])
	}
}

func cmdPublish(cfg *Config, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: fpgakit publish <pkg> <version> <platform> <archive>")
	}
	return publishPackage(context.Background(), cfg, args[0], args[1], args[2], args[3])
}

// Main is the CLI entrypoint for fpgakit.
func Main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printHelp()
		os.Exit(1)
	}

	cfg, err := loadConfig(ConfigFile)
	if err != nil {
		colWarn.Printf("Warning: could not read %s: %v\n", ConfigFile, err)
	}
	initConfig(cfg)

	cmd, rest := args[0], args[1:]

	var cmdErr error
	switch cmd {
	case "version", "--version":
		printVersion()
	case "help", "-h", "--help":
		printHelp()
	case "verify", "v":
		cmdErr = cmdVerify(cfg, rest)
	case "install", "i":
		if len(rest) == 0 {
			cmdErr = fmt.Errorf("usage: fpgakit install <pkg...>")
			break
		}
		for _, name := range rest {
			if cmdErr = installPackage(cfg, name); cmdErr != nil {
				break
			}
		}
	case "uninstall", "r":
		if len(rest) == 0 {
			cmdErr = fmt.Errorf("usage: fpgakit uninstall <pkg...>")
			break
		}
		for _, name := range rest {
			if cmdErr = uninstallPackage(cfg, name); cmdErr != nil {
				break
			}
		}
	case "env":
		cmdEnv(cfg)
	case "system":
		cmdErr = cmdSystem(cfg, rest)
	case "upgrade-check", "u":
		cmdErr = checkUpgrade(mirrorURL)
	case "publish":
		cmdErr = cmdPublish(cfg, rest)
	default:
		colError.Printf("Unknown command: %s\n\n", cmd)
		printHelp()
		os.Exit(1)
	}

	if cmdErr != nil {
		colError.Printf("Error: %v\n", cmdErr)
		os.Exit(1)
	}
}
