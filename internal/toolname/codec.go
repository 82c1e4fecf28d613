// ABOUTME: Namespacing of tool identifiers as "{target}___{tool}".
// ABOUTME: The separator is fixed; the gateway applies it to every target's tools.

package toolname

import "strings"

// Separator joins a target name and a tool name. It is never configurable.
const Separator = "___"

// Namespace prefixes tool with its owning target.
func Namespace(target, tool string) string {
	return target + Separator + tool
}

// Resolve strips the target prefix from a namespaced name. Names without a
// separator are returned unchanged. Only the first segment is dropped, so a
// tool whose own name contains the separator keeps the remainder intact.
func Resolve(full string) string {
	_, rest, found := strings.Cut(full, Separator)
	if !found {
		return full
	}
	return rest
}
