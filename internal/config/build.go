package config

import "fmt"

type BuildType int

const (
	RELEASE BuildType = iota
	DEBUG
)

func (bt BuildType) String() string {
	switch bt {
	case RELEASE:
		return "release"
	case DEBUG:
		return "debug"
	}
	return "unknown"
}

// CXXFlags are the flags generated C++ is meant to be compiled with.
func (bt BuildType) CXXFlags() []string {
	switch bt {
	case RELEASE:
		return []string{"-std=c++17", "-O3", "-Wl,-s"}
	default:
		return []string{"-std=c++17", "-O0", "-g"}
	}
}

func ParseBuildType(s string) (BuildType, error) {
	switch s {
	case "release":
		return RELEASE, nil
	case "debug", "":
		return DEBUG, nil
	}
	return DEBUG, fmt.Errorf("unknown build type %q, expected release or debug", s)
}
