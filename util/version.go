package util

// Ver is overridden at build time with -ldflags "-X github.com/taskflow/taskflow/util.Ver=...".
var Ver = "dev"

func Version() string {
	return Ver
}
