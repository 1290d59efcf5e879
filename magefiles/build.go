//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Validates every GLSL file under assets/shaders with glslangValidator.
func (Build) Shaders() error {
	shaders, err := shaderSources()
	if err != nil {
		return err
	}
	if len(shaders) == 0 {
		fmt.Println("No shaders to validate")
		return nil
	}
	for _, s := range shaders {
		if err := validateShader(s); err != nil {
			return err
		}
	}
	fmt.Printf("Validated %d shaders\n", len(shaders))
	return nil
}

// Compiles the testbed binary into bin/.
func (Build) Testbed() error {
	fmt.Println("Building testbed...")
	return runGo("build", "-o", TESTBED_BINARY, ".")
}
