package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"quiet", "civic", "eager", "steady", "candid",
	"frank", "loyal", "plain", "sober", "keen",
	"wry", "fair", "stout", "brisk", "tidy",
}

var nouns = []string{
	"voter", "elector", "pundit", "delegate", "juror",
	"citizen", "caucus", "ballot", "senator", "mayor",
	"clerk", "envoy", "tribune", "herald", "scribe",
}

// GenerateUsername returns a random username like "civic_juror_0421".
// It is used when an identity token carries no username.
func GenerateUsername() (string, error) {
	adj, err := pick(adjectives)
	if err != nil {
		return "", fmt.Errorf("failed to pick adjective: %w", err)
	}
	noun, err := pick(nouns)
	if err != nil {
		return "", fmt.Errorf("failed to pick noun: %w", err)
	}
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate suffix: %w", err)
	}
	return fmt.Sprintf("%s_%s_%04d", adj, noun, suffix.Int64()), nil
}

func pick(words []string) (string, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", err
	}
	return words[i.Int64()], nil
}
