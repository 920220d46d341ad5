package internal

// Version is the current version of smilechat. It is printed by --version
// and should be updated with each release.
const Version = "0.1.0"
