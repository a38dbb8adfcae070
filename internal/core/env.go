package core

// Env is the slice of the process environment the build and the dev server read.
// Values are kept verbatim; an unset variable is the empty string.
type Env struct {
	NodeEnv string
	Port    string
	Host    string
}
