//go:build mage

// Package main contains Mage build targets for disclosure-fetch developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "disclosure-fetch"
	cmdPkg  = "./cmd/disclosure-fetch"

	playwrightCLI = "github.com/playwright-community/playwright-go/cmd/playwright"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// E2E runs the browser tests. They need a local Chrome or Chromium.
func E2E() error {
	return sh.RunV("go", "test", "-tags", "e2e", "./internal/...")
}

// Browsers installs the Chromium build used by the playwright engine.
func Browsers() error {
	return sh.RunV("go", "run", playwrightCLI, "install", "--with-deps", "chromium")
}

// All builds and tests.
func All() {
	mg.SerialDeps(Test, Build)
}

// Stats prints non-blank Go lines per source tree, split into production
// and test code, and the word count of the top-level Markdown documents.
func Stats() error {
	var prodTotal, testTotal int
	for _, dir := range sourceDirs {
		prod, test, err := goLines(dir)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s prod %6d  test %6d\n", dir+"/", prod, test)
		prodTotal += prod
		testTotal += test
	}
	fmt.Printf("%-10s prod %6d  test %6d\n", "total", prodTotal, testTotal)

	docs, err := filepath.Glob("*.md")
	if err != nil {
		return err
	}
	words := 0
	for _, doc := range docs {
		data, err := os.ReadFile(doc)
		if err != nil {
			return fmt.Errorf("reading %s: %w", doc, err)
		}
		words += len(strings.Fields(string(data)))
	}
	fmt.Printf("docs: %d words in %d file(s)\n", words, len(docs))
	return nil
}

// sourceDirs are the trees holding the module's Go code.
var sourceDirs = []string{"cmd", "internal", "pkg"}

// goLines returns the non-blank line counts of the non-test and _test.go
// files under root.
func goLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}
