package mindshift

// Version is the library version, overridable at build time via
// -ldflags "-X github.com/mindshifting/mindshift.Version=...".
var Version = "0.1.0"
