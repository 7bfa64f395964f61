package tool

import (
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/jakkaphatm/chatcart/agent/contract"
)

// Planner output arrives as decoded JSON, so numbers are float64 and every
// value needs coercion before the domain logic sees it.

func stringArg(args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("%w: %s is required", contractx.ErrValidation, key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", contractx.ErrValidation, key, raw)
	}
	s = strings.TrimSpace(s)
	if required && s == "" {
		return "", fmt.Errorf("%w: %s is empty", contractx.ErrValidation, key)
	}
	return s, nil
}

func floatArg(args map[string]any, key string, required bool) (float64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return 0, fmt.Errorf("%w: %s is required", contractx.ErrValidation, key)
		}
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not a number: %q", contractx.ErrValidation, key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", contractx.ErrValidation, key, raw)
	}
}

func intArg(args map[string]any, key string, fallback int) (int, error) {
	if _, ok := args[key]; !ok {
		return fallback, nil
	}
	f, err := floatArg(args, key, false)
	if err != nil {
		return 0, err
	}
	if f == 0 {
		return fallback, nil
	}
	return int(f), nil
}
