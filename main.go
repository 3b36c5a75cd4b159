package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	config "github.com/drummonds/godfium/config"
	"github.com/drummonds/godfium/engine/pagecount"
	"github.com/drummonds/godfium/pdfium"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	config.Logger = logger
	pdfium.Logger = logger
	pagecount.Logger = logger
}

const usage = `usage: godfium [flags] <command> [file...]

commands:
  pages FILE...    print the page count of each file using the native pdfium library
  compare FILE...  compare page counts across engines (%s)
  libpath          print the pdfium library path derived for this platform

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code:
// 0 on success, 1 when an operation failed, 2 on usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("godfium", flag.ContinueOnError)
	flags.SetOutput(stderr)
	libPath := flags.String("lib", "", "pdfium shared library (overrides PDFIUM_LIBRARY_PATH)")
	baseDir := flags.String("base", "", "base directory to derive the library path from (overrides PDFIUM_BASE_DIR)")
	password := flags.String("password", "", "password for encrypted documents")
	engines := flags.String("engines", "", "comma-separated engines for compare (overrides PDF_ENGINES)")
	flags.Usage = func() {
		fmt.Fprintf(stderr, usage, strings.Join(pagecount.Engines, ", "))
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, logger := config.Setup()
	injectGlobals(logger)

	// Flags win over the environment
	if *libPath != "" {
		cfg.LibraryPath = *libPath
	}
	if *baseDir != "" {
		cfg.BaseDir = *baseDir
	}
	if *engines != "" {
		cfg.Engines = config.SplitList(*engines)
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}
	command, files := flags.Arg(0), flags.Args()[1:]

	switch command {
	case "pages", "compare":
		if len(files) == 0 {
			fmt.Fprintf(stderr, "%s: no files given\n", command)
			return 2
		}
		if command == "pages" {
			return runPages(cfg, *password, files, stdout, stderr)
		}
		return runCompare(cfg, *password, files, stdout, stderr)
	case "libpath":
		path, err := pdfium.LibraryPath(cfg.BaseDir)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, path)
		return 0
	}

	fmt.Fprintf(stderr, "unknown command %q\n", command)
	flags.Usage()
	return 2
}

func runPages(cfg config.Config, password string, files []string, stdout, stderr io.Writer) int {
	ws, err := pdfium.Open(pdfium.Config{BaseDir: cfg.BaseDir, Logger: Logger}, cfg.LibraryPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer ws.Free()

	Logger.Info("Workspace ready", "library", ws.LibraryPath(), "session", ws.Session().String())

	status := 0
	for _, file := range files {
		pages, err := documentPages(ws, file, password)
		if err != nil {
			fmt.Fprintln(stderr, err)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "%s: %d pages\n", file, pages)
	}
	return status
}

// documentPages loads one document, counts its pages and closes it
func documentPages(ws *pdfium.Workspace, file, password string) (int, error) {
	doc, err := ws.LoadDocument(file, password)
	if err != nil {
		return 0, err
	}
	defer doc.Close()

	return doc.PageCount()
}

func runCompare(cfg config.Config, password string, files []string, stdout, stderr io.Writer) int {
	counters, err := pagecount.NewAll(cfg.Engines, pagecount.Options{
		LibraryPath: cfg.LibraryPath,
		BaseDir:     cfg.BaseDir,
		WasmTimeout: cfg.WasmInstanceTimeout,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer pagecount.CloseAll(counters)

	status := 0
	for _, file := range files {
		report := pagecount.Compare(file, password, counters...)
		report.Write(stdout)
		if !report.Agree() {
			status = 1
		}
	}
	return status
}
