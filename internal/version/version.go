package version

// Version is the client version reported by `simstep version`.
var Version = "0.3.0"
