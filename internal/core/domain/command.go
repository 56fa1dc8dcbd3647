package domain

import "strings"

// ParseCommandArgs strips the leading command token and returns the rest.
func ParseCommandArgs(args string) string {
	command := strings.Split(args, " ")
	return strings.Join(command[1:], " ")
}

// ParseCommand returns the lowercased command token of a message.
func ParseCommand(args string) string {
	command := strings.Split(args, " ")
	return strings.ToLower(command[0])
}
