//go:build !elastix

package elastix

// Available reports whether the Elastix binding was compiled in.
func Available() bool { return false }
