//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	SHADER_DIR     = "assets/shaders"
	TESTBED_BINARY = "bin/tessera"
	TESTBED_CONFIG = "tessera.toml"
)

// GLFW and the GL bindings are cgo packages.
var goEnv = map[string]string{"CGO_ENABLED": "1"}

// runGo runs the go tool with the project environment and streams its output.
func runGo(args ...string) error {
	fmt.Printf("Executing: go %s\n", strings.Join(args, " "))
	return sh.RunWithV(goEnv, mg.GoCmd(), args...)
}

// shaderSources lists the GLSL stage files the testbed can load.
func shaderSources() ([]string, error) {
	var shaders []string
	for _, pattern := range []string{"*.vert", "*.frag"} {
		matches, err := filepath.Glob(filepath.Join(SHADER_DIR, pattern))
		if err != nil {
			return nil, err
		}
		shaders = append(shaders, matches...)
	}
	return shaders, nil
}

// validateShader checks one stage file with glslangValidator. The validator
// output is printed on failure, or always when mage runs verbose.
func validateShader(path string) error {
	out, err := sh.Output("glslangValidator", path)
	if mg.Verbose() && out != "" {
		fmt.Println(out)
	}
	if err != nil {
		return fmt.Errorf("shader '%s' failed validation:\n%s", path, out)
	}
	return nil
}

// testbedArgs passes the local context configuration to the testbed when present.
func testbedArgs() []string {
	if _, err := os.Stat(TESTBED_CONFIG); err == nil {
		return []string{"-config", TESTBED_CONFIG}
	}
	return nil
}
