package settings

// SettingsBuilderOption is a function that configures Settings during construction.
type SettingsBuilderOption func(*Settings)

// WithPath binds the settings to a YAML file used by Reload, Save and Watch.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - SettingsBuilderOption: a function that applies the path option
func WithPath(path string) SettingsBuilderOption {
	return func(s *Settings) {
		s.path = path
	}
}

// WithValues sets the initial values. They are clamped like any other update.
//
// Parameters:
//   - v: the initial values
//
// Returns:
//   - SettingsBuilderOption: a function that applies the values option
func WithValues(v Values) SettingsBuilderOption {
	return func(s *Settings) {
		s.values = v
	}
}
