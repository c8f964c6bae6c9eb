package shader

// ShaderBuilderOption configures a shader at construction time.
type ShaderBuilderOption func(*shader)

// WithVertexEntryPoint overrides the vertex stage function name.
func WithVertexEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexEntry = name
	}
}

// WithFragmentEntryPoint overrides the fragment stage function name.
func WithFragmentEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.fragmentEntry = name
	}
}

// WithoutValidation skips the offline compile step in Validate. The GPU driver
// still validates the module when the pipeline is created.
func WithoutValidation() ShaderBuilderOption {
	return func(s *shader) {
		s.skipValidation = true
	}
}
