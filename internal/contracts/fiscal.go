package contracts

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// FiscalYear is a "YYYY-YY" key, e.g. "2023-24"
type FiscalYear string

var fiscalYearPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// NewFiscalYear builds the key for the year starting in start
func NewFiscalYear(start int) FiscalYear {
	return FiscalYear(fmt.Sprintf("%d-%02d", start, (start+1)%100))
}

// ParseFiscalYear accepts only canonical keys whose second segment follows the first
func ParseFiscalYear(s string) (FiscalYear, bool) {
	m := fiscalYearPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	start, _ := strconv.Atoi(m[1])
	fy := NewFiscalYear(start)
	if string(fy) != m[0] {
		return "", false
	}
	return fy, true
}

// Start returns the calendar year the fiscal year starts in
func (fy FiscalYear) Start() (int, bool) {
	head, _, _ := strings.Cut(string(fy), "-")
	start, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	return start, true
}

// StartPrefix is the leading segment used to match trade dates, "" when malformed
func (fy FiscalYear) StartPrefix() string {
	head, _, _ := strings.Cut(string(fy), "-")
	return head
}

// Prev returns the chronologically preceding key.
// Plain integer keys decrement; anything else unparseable yields "".
func (fy FiscalYear) Prev() FiscalYear {
	s := string(fy)
	if strings.Contains(s, "-") {
		start, ok := fy.Start()
		if !ok {
			return ""
		}
		return NewFiscalYear(start - 1)
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return FiscalYear(strconv.Itoa(n - 1))
}

// SortDesc orders keys newest first
func SortDesc(years []FiscalYear) {
	sort.Slice(years, func(i, j int) bool { return years[i] > years[j] })
}
