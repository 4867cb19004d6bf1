package build_info

// Overwritten with ldflags upon build
var (
	Version   = "dev"
	BuildDate = "0"
)
