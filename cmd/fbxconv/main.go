// fbxconv converts FBX document descriptions into renderer-agnostic scenes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/fbxscene/internal/assets"
	"github.com/Faultbox/fbxscene/internal/config"
	"github.com/Faultbox/fbxscene/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	docs   *assets.Manager
	stdout io.Writer
}

// errUsage marks errors that should be followed by the usage text.
var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fbxconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if fs.NArg() < 1 {
		printUsage(stderr)
		return 1
	}
	command, rest := fs.Arg(0), fs.Args()[1:]
	if command == "help" {
		printUsage(stdout)
		return 0
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	log, err := logger.New(cfg.Logging.Level, fileCfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer log.Sync()

	a := &app{
		cfg:    cfg,
		log:    log,
		docs:   assets.NewManager(log),
		stdout: stdout,
	}
	defer a.docs.Close()
	for _, dir := range cfg.Data.SearchPaths {
		if err := a.docs.AddSearchPath(dir); err != nil {
			log.Warn("skipping search path", zap.String("path", dir), zap.Error(err))
		}
	}

	switch command {
	case "convert":
		err = a.cmdConvert(rest)
	case "info":
		err = a.cmdInfo(rest)
	case "tree":
		err = a.cmdTree(rest)
	case "watch":
		err = a.cmdWatch(ctx, rest)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			printUsage(stderr)
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `fbxconv - FBX document to scene converter

Usage:
  fbxconv [flags] <command> <doc.yaml>...

Commands:
  convert <doc.yaml>...   Convert documents and write the scenes
  info <doc.yaml>         Show scene statistics and conversion diagnostics
  tree <doc.yaml>         Print the node hierarchy
  watch <doc.yaml>...     Convert, then convert again whenever a document changes

Flags:
  -config <file>     Config file (.yaml or .toml)
  -debug             Enable debug logging
  -all-materials     Also convert materials no mesh references
  -format yaml|toml  Output format
  -o <path>          Output file, or directory when converting several documents
  -charset <name>    Legacy charset of object names (e.g. euc-kr)

Examples:
  fbxconv convert character.yaml
  fbxconv -format toml -o out convert a.yaml b.yaml
  fbxconv -charset euc-kr tree prontera.yaml`)
}
