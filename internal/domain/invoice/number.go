package invoice

import (
	"fmt"
	"strconv"
	"strings"
)

const NumberPrefix = "INV-"

// NextNumber derives the successor of last ("INV-0007" -> "INV-0008").
// An empty or unparseable last number restarts the sequence at INV-0001.
func NextNumber(last string) string {
	return fmt.Sprintf("%s%04d", NumberPrefix, sequenceOf(last)+1)
}

func sequenceOf(number string) int {
	parts := strings.Split(number, "-")
	if len(parts) < 2 {
		return 0
	}

	digits := parts[1]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(digits[:end])
	if err != nil {
		return 0
	}
	return n
}
