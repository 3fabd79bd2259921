package domain

import (
	"fmt"
	"strings"
)

// Domain contains core models shared by the order client and the runtimes.

// Environment selects which merchant server the client talks to.
type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

// ParseEnvironment normalizes a configured environment name.
func ParseEnvironment(raw string) (Environment, error) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(raw))); env {
	case Sandbox, Production:
		return env, nil
	case "":
		return Sandbox, nil
	default:
		return "", fmt.Errorf("unknown environment %q", raw)
	}
}

func (e Environment) String() string { return string(e) }
