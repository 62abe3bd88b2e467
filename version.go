package sluice

// Version is the current release of the sluice module.
var Version = "0.1.0"
