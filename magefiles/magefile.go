//go:build mage

// Package main provides build targets for the custos project using Mage.
//
// Usage:
//
//	mage test       Run all tests
//	mage lint       Run golangci-lint
//	mage coverage   Run tests with coverage profile
//	mage clean      Remove build artifacts
//	mage stats      Print Go LOC counts per package
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

const coverageFile = "coverage.out"

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint over the whole module.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Coverage runs tests with a coverage profile and prints the summary.
func Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile="+coverageFile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverageFile)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(coverageFile)
}

// Stats prints Go line counts per top-level package directory.
func Stats() error {
	counts := map[string]int{}
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		top := strings.SplitN(path, string(filepath.Separator), 2)[0]
		counts[top] += strings.Count(string(data), "\n")
		return nil
	})
	if err != nil {
		return err
	}
	for dir, lines := range counts {
		fmt.Printf("%-20s %6d\n", dir, lines)
	}
	return nil
}
