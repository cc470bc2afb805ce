// Command devsim-bankgen generates Go offset constants from register bank
// YAML files.
//
// Usage:
//
//	devsim-bankgen -input banks.yaml -package piix -output piix/banks_gen.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

func main() {
	input := flag.String("input", "", "Bank YAML file (one bank or a banks: list)")
	pkg := flag.String("package", "", "Package name of the generated file")
	output := flag.String("output", "", "Output path of the generated Go file")
	flag.Parse()

	if *input == "" || *pkg == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: devsim-bankgen -input <file> -package <name> -output <file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*input, *pkg, *output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, pkg, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	banks, err := LoadBanks(data)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}

	code, err := Generate(pkg, filepath.Base(input), banks)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := writeFormatted(output, code); err != nil {
		return err
	}
	fmt.Printf("  generated %s\n", output)
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Keep the raw output for debugging the templates.
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
