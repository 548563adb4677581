package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sox/interpreter-go/pkg/driver"
	"sox/interpreter-go/pkg/interpreter"
	"sox/interpreter-go/pkg/parser"
	"sox/interpreter-go/pkg/resolver"
)

const version = "0.1.0"

// Exit codes follow the sysexits convention: 64 for usage errors, 65 for
// scan/parse/resolve errors, 70 for runtime errors.
const (
	exitOK      = 0
	exitUsage   = 64
	exitDataErr = 65
	exitSwErr   = 70
	exitIOErr   = 74
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runREPL()
	}
	switch args[0] {
	case "run":
		return runCommand(args[1:])
	case "deps":
		return depsCommand(args[1:])
	case "repl":
		return runREPL()
	case "version", "--version", "-v":
		fmt.Println("sox " + version)
		return exitOK
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "sox: unknown command %q\n\n", args[0])
		printUsage(os.Stderr)
		return exitUsage
	}
}

func printUsage(w *os.File) {
	fmt.Fprint(w, `Usage: sox <command> [arguments]

Commands:
  run [script.sox]   run a script, or the manifest entry when no path is given
  deps install       install the dependencies declared in package.yml
  repl               start an interactive session
  version            print the version
  help               show this message
`)
}

func runCommand(args []string) int {
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "sox run: expected at most one script path")
		return exitUsage
	}
	if len(args) == 1 {
		return runFile(args[0])
	}

	// No path: fall back to the manifest's entry script.
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox run:", err)
		return exitIOErr
	}
	manifestPath, err := driver.FindManifest(wd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox run:", err)
		return exitUsage
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox run:", err)
		return exitDataErr
	}
	entry, err := manifest.EntryPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox run:", err)
		return exitDataErr
	}
	return runFile(entry)
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox:", err)
		return exitIOErr
	}

	program, err := parser.Parse(string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitDataErr
	}
	if err := resolver.New().Resolve(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitDataErr
	}
	if err := interpreter.New().Interpret(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitSwErr
	}
	return exitOK
}

func depsCommand(args []string) int {
	if len(args) != 1 || args[0] != "install" {
		fmt.Fprintln(os.Stderr, "sox deps: expected 'install' subcommand")
		return exitUsage
	}

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox deps:", err)
		return exitIOErr
	}
	manifestPath, err := driver.FindManifest(wd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox deps:", err)
		return exitUsage
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox deps:", err)
		return exitDataErr
	}

	cacheDir, err := resolveCacheDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox deps:", err)
		return exitIOErr
	}

	installer := driver.NewInstaller(manifest, cacheDir)
	lock, err := installer.Install()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sox deps:", err)
		return exitSwErr
	}
	for _, line := range installer.Logs() {
		fmt.Println(line)
	}

	lockPath := filepath.Join(filepath.Dir(manifestPath), driver.LockFileName)
	if err := lock.Write(lockPath); err != nil {
		fmt.Fprintln(os.Stderr, "sox deps:", err)
		return exitIOErr
	}
	fmt.Printf("wrote %s (%d packages)\n", lockPath, len(lock.Packages))
	return exitOK
}

// resolveCacheDir honors SOX_HOME, then falls back to the user cache dir.
func resolveCacheDir() (string, error) {
	if home := os.Getenv("SOX_HOME"); home != "" {
		return home, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errors.New("cannot determine cache directory; set SOX_HOME")
	}
	return filepath.Join(base, "sox"), nil
}
