package functions

// Plugin is a bundle of scalar functions installed into a registry together.
type Plugin interface {
	// Functions returns freshly built function declarations.
	Functions() []*ScalarFunction
}

// PluginFunc adapts a plain function to Plugin.
type PluginFunc func() []*ScalarFunction

func (f PluginFunc) Functions() []*ScalarFunction {
	return f()
}
