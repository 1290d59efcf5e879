package loaders

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unrecognised file, ignored by the asset manager. */
	ResourceTypeNone ResourceType = iota
	/** @brief Image resource type, decoded to straight-alpha RGBA pixels. */
	ResourceTypeImage
	/** @brief GLSL shader stage source. */
	ResourceTypeShader
	/** @brief AngelCode BMFont descriptor plus its page images. */
	ResourceTypeBitmapFont
	/** @brief TrueType/OpenType font rasterized at a given size. */
	ResourceTypeVectorFont
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeImage:
		return "image"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeBitmapFont:
		return "bitmap font"
	case ResourceTypeVectorFont:
		return "vector font"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource, usually the file name. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The resource type. */
	Type ResourceType
	/** @brief The size of the source file in bytes. */
	DataSize uint64
	/** @brief The decoded data, one of the *Data types in this package. */
	Data interface{}
}

/** @brief Decoded image pixels, row major from the top left, 4 bytes per pixel. */
type ImageData struct {
	Width  int
	Height int
	Pixels []uint8
}

type ImageParams struct {
	/** @brief Flip the image vertically while decoding. */
	FlipY bool
	/** @brief Multiply colour channels by alpha. */
	Premultiply bool
}

type ShaderData struct {
	Source string
}

type GlyphData struct {
	X, Y          int
	Width, Height int
	XOffset       int
	YOffset       int
	XAdvance      int
	Page          int
}

type KerningPair struct {
	First, Second rune
}

type BitmapFontData struct {
	Face       string
	Size       int
	LineHeight int
	Base       int
	Glyphs     map[rune]GlyphData
	Kernings   map[KerningPair]int
	Pages      []*ImageData
}

type VectorFontParams struct {
	/** @brief Font size in pixels. */
	Size float32
	/** @brief Face index inside a font collection. */
	Index int
}
