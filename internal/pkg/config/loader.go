// Package config loads validated settings from the environment with a
// fail-open policy: an unparseable or invalid value is replaced by its
// default and reported as a warning instead of an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Outcome reports whether a load fell back to the default and why.
type Outcome struct {
	Warnings        []string
	FallbackApplied bool
}

// LoadResult is a loaded value with its Outcome.
type LoadResult[T any] struct {
	Value T
	Outcome
}

// LoadEnv reads envKey, parses it and validates it. An unset or empty
// variable yields defaultValue without a warning. A nil validator accepts
// every parsed value.
func LoadEnv[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) LoadResult[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	fallback := func(err error) LoadResult[T] {
		return LoadResult[T]{
			Value: defaultValue,
			Outcome: Outcome{
				Warnings:        []string{fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, defaultValue)},
				FallbackApplied: true,
			},
		}
	}

	value, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return fallback(err)
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(err)
		}
	}
	return LoadResult[T]{Value: value}
}

// LoadEnvString loads a string setting.
func LoadEnvString(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	return LoadEnv(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvInt loads a base-10 integer setting.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	return LoadEnv(envKey, defaultValue, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid integer format")
		}
		return n, nil
	}, validator)
}

// LoadEnvDuration loads a time.ParseDuration setting such as "90s".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	return LoadEnv(envKey, defaultValue, time.ParseDuration, validator)
}
