package config

// UIConfig holds terminal editor configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `yaml:"theme"`

	// WordWrap is the preview wrap width (0 = follow the terminal width)
	WordWrap int `yaml:"word_wrap"`

	// PreviewOnStart opens the preview pane when the editor starts
	PreviewOnStart bool `yaml:"preview_on_start"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:    "auto",
		WordWrap: 0,
	}
}
