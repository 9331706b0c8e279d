package modules

import "strings"

// Mangle turns a dotted module name into an identifier that is unique per
// module: underscores inside segments are doubled and segments are joined
// with a single underscore, so "my_lib.io" and "my.lib_io" never collide.
func Mangle(name string) string {
	segments := strings.Split(name, ".")
	for i, segment := range segments {
		segments[i] = strings.ReplaceAll(segment, "_", "__")
	}
	return strings.Join(segments, "_")
}

// Namespace is the C++ namespace that holds a module's declarations.
func Namespace(mangled string) string {
	return "redline::m_" + mangled
}
