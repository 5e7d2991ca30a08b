package domain

import (
	"fmt"
	"strings"
)

// Platform identifies which ATS hosts a company's job board.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
)

func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformGreenhouse:
		return PlatformGreenhouse, nil
	case PlatformLever:
		return PlatformLever, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}
