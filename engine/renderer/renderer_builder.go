package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithViewport sets the window-space rectangle the frame is drawn into.
//
// Parameters:
//   - x, y: the lower-left corner in pixels
//   - width, height: the size in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the viewport option to a renderer
func WithViewport(x, y, width, height int32) RendererBuilderOption {
	return func(r *renderer) {
		r.viewport = [4]int32{x, y, width, height}
	}
}

// WithClearColor sets the color the frame is cleared to.
//
// Parameters:
//   - red, green, blue, alpha: the color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(red, green, blue, alpha float32) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = [4]float32{red, green, blue, alpha}
	}
}

// WithDepthConvention selects the depth clear value and comparison.
// When not specified, DepthReversed is used.
//
// Parameters:
//   - convention: DepthReversed or DepthStandard
//
// Returns:
//   - RendererBuilderOption: a function that applies the depth option to a renderer
func WithDepthConvention(convention DepthConvention) RendererBuilderOption {
	return func(r *renderer) {
		r.depth = convention
	}
}
