package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mas6y6/REDLINE/internal/compiler"
	"github.com/mas6y6/REDLINE/internal/config"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix(config.APP_NAME + ": ")

	args, err := cli(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	envs, err := config.LoadEnvs()
	if err != nil {
		log.Fatal(err)
	}

	switch args.Command {
	case COMMAND_HELP:
		fmt.Print(HELP_COMMAND)
	case COMMAND_ENV:
		envs.ShowAll(os.Stdout)
	case COMMAND_REPL:
		os.Exit(repl(envs))
	case COMMAND_BUILD, COMMAND_EMIT:
		os.Exit(build(args, envs))
	}
}

// project finds the manifest for path: the redline.proj of a directory, or
// a synthetic one for a single source file.
func project(path string) (*config.Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("no such file or directory: %s", path)
	}
	if info.IsDir() {
		return config.LoadManifest(path)
	}
	return config.ManifestForFile(path), nil
}

func build(args CliResult, envs *config.Envs) int {
	manifest, err := project(args.Path)
	if err != nil {
		log.Print(err)
		return 1
	}

	opts := compiler.Options{BuildType: manifest.BuildType()}
	if args.BuildTypeSet {
		opts.BuildType = args.BuildType
	}
	if args.Verbose {
		opts.Logger = log.New(os.Stderr, config.APP_NAME+": ", log.Ltime|log.Lmicroseconds)
	}
	if envs.RUNTIME != "" {
		runtime, err := os.ReadFile(envs.RUNTIME)
		if err != nil {
			log.Printf("RL_RUNTIME: %v", err)
			return 1
		}
		opts.Runtime = runtime
	}

	entry := manifest.EntryPath()
	units, err := compiler.Compile(entry, opts)
	if err != nil {
		compiler.Report(os.Stderr, os.DirFS(filepath.Dir(entry)), err)
		return 1
	}

	outDir := manifest.OutputDir()
	if args.Output != "" {
		outDir = args.Output
	}
	if err := compiler.WriteUnits(outDir, units); err != nil {
		log.Print(err)
		return 1
	}
	if args.Command == COMMAND_EMIT {
		for _, unit := range units {
			fmt.Println(filepath.Join(outDir, unit.Name))
		}
		return 0
	}

	cxx := envs.CXX
	if cxx == "" {
		cxx = "c++"
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exe := filepath.Join(outDir, manifest.Name)
	if err := compiler.BuildExecutable(ctx, cxx, outDir, units, exe, opts.BuildType); err != nil {
		log.Print(err)
		return 1
	}
	fmt.Printf("built %s (%s)\n", exe, opts.BuildType)
	return 0
}
