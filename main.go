package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/orgclips/internal/cli"
	"github.com/mrlokans/orgclips/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	args := os.Args[2:]
	cfg := config.NewConfig()

	var cmd command
	switch name {
	case "bookclips":
		cmd = cli.NewBookClipsCommand(cfg)
	case "docbib":
		cmd = cli.NewDocBibCommand(cfg)
	case "titles":
		cmd = cli.NewTitlesCommand(cfg)
	case "import":
		cmd = cli.NewImportCommand(cfg)
	case "history":
		cmd = cli.NewHistoryCommand(cfg)
	case "watch":
		cmd = cli.NewWatchCommand(cfg)

	case "version":
		fmt.Printf("orgclips %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  bookclips  Append the Kindle clippings of books to an org-mode file\n")
	fmt.Fprintf(os.Stderr, "  docbib     Print BibTeX entries for book files\n")
	fmt.Fprintf(os.Stderr, "  titles     List the books found in the clippings file\n")
	fmt.Fprintf(os.Stderr, "  import     File books under their bibid and export their clippings\n")
	fmt.Fprintf(os.Stderr, "  history    Show recently exported books\n")
	fmt.Fprintf(os.Stderr, "  watch      Import on a schedule whenever the clippings change\n")
	fmt.Fprintf(os.Stderr, "  version    Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Settings are read from the environment and from a .env file.\n")
}
