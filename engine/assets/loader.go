package assets

import "github.com/spaghettifunk/tessera/engine/assets/loaders"

type Loader interface {
	Load(path string, assetType loaders.ResourceType, params interface{}) (*loaders.Resource, error)
	Unload(*loaders.Resource) error
}
