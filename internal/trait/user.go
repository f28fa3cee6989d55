package trait

import (
	"strconv"
	"strings"
)

const userPrefix = "user"

// UserTraitIndex returns the slot index of a user trait name such as user3 or
// Menu.button.user3. The leaf must be "user" followed by a non-negative
// decimal number.
func UserTraitIndex(name string) (int, bool) {
	leaf := name
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		leaf = name[dot+1:]
	}
	if !strings.HasPrefix(leaf, userPrefix) || len(leaf) == len(userPrefix) {
		return 0, false
	}
	digits := leaf[len(userPrefix):]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
