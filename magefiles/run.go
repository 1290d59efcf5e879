//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Validates the shaders and then runs the testbed, with tessera.toml if present.
func (Run) Testbed() error {
	mg.Deps(Build.Shaders)
	fmt.Println("Run testbed...")
	return runGo(append([]string{"run", "."}, testbedArgs()...)...)
}

// Runs the test suite.
func Test() error {
	fmt.Println("Running tests...")
	return runGo("test", "./...")
}
