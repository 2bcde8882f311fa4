package pkg

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StringUtils provides string utility functions
type StringUtils struct{}

var Strings = StringUtils{}

func (StringUtils) IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (StringUtils) Truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length]
}

// SanitizeName strips characters that have no place in a resource name.
func (StringUtils) SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "", "\\", "", "\x00", "")
	return replacer.Replace(name)
}

// ConversionUtils provides type conversion utilities
type ConversionUtils struct{}

var Conversions = ConversionUtils{}

func (ConversionUtils) StringToObjectID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}

func (ConversionUtils) StringToInt(s string, defaultValue int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return defaultValue
}

// SliceUtils provides slice utility functions
type SliceUtils struct{}

var Slices = SliceUtils{}

func (SliceUtils) ContainsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// UniqueStrings returns slice with duplicates removed, order preserved.
func (SliceUtils) UniqueStrings(slice []string) []string {
	seen := make(map[string]struct{}, len(slice))
	out := make([]string, 0, len(slice))
	for _, s := range slice {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
