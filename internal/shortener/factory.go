package shortener

// NewGenerator creates a generator from the given configuration
func NewGenerator(config Config) (Generator, error) {
	length := config.CodeLength
	if length == 0 {
		length = DefaultCodeLength
	}

	return NewRandomGenerator(length)
}
