// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package profile

import (
	"strings"

	"github.com/danielhkuo/hibah-admin/workflow"
)

// AddTag appends tag after trimming. Duplicates (ignoring case) are left
// out silently; an empty tag is rejected.
func AddTag(tags []string, tag string) ([]string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags, workflow.NewValidationError("tag", "tag tidak boleh kosong")
	}
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return tags, nil
		}
	}
	return append(append([]string(nil), tags...), tag), nil
}

// RemoveTag drops tag, ignoring case.
func RemoveTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !strings.EqualFold(t, tag) {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeTags rebuilds tags through AddTag, dropping blanks and duplicates.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out, _ = AddTag(out, t)
	}
	return out
}
