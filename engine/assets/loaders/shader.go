package loaders

import (
	"os"
	"path/filepath"
)

type ShaderLoader struct{}

// Load reads a GLSL stage source. Compilation happens on the renderer backend.
func (sl *ShaderLoader) Load(path string, assetType ResourceType, params interface{}) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     ResourceTypeShader,
		DataSize: uint64(len(data)),
		Data:     &ShaderData{Source: string(data)},
	}, nil
}

func (sl *ShaderLoader) Unload(resource *Resource) error {
	resource.Data = nil
	resource.DataSize = 0
	return nil
}
