package client

// Version is the version of `gantry`. It is injected at compile time.
var Version = "0.0.0"
