package render

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/opsatya/ved/internal/contracts"
)

var printer = message.NewPrinter(language.English)

// IST is Indian Standard Time, used for every user-facing timestamp
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Timestamp renders t in IST as "2006-01-02 15:04:05"
func Timestamp(t time.Time) string {
	return t.In(IST).Format("2006-01-02 15:04:05")
}

// Styler decorates headings
type Styler struct {
	ANSI bool
}

var (
	// Terminal styles headings in bold cyan
	Terminal = Styler{ANSI: true}
	// Plain leaves text untouched for HTTP clients
	Plain = Styler{}
)

// Bold highlights a heading
func (s Styler) Bold(text string) string {
	if !s.ANSI {
		return text
	}
	return "\033[1;36m" + text + "\033[0m"
}

// TrendIcon maps a change to ↑, ↓ or →
func TrendIcon(change float64) string {
	switch {
	case change > 0:
		return "↑"
	case change < 0:
		return "↓"
	default:
		return "→"
	}
}

// TrendWord maps a change to Uptrend, Downtrend or Stable
func TrendWord(change float64) string {
	switch {
	case change > 0:
		return "Uptrend"
	case change < 0:
		return "Downtrend"
	default:
		return "Stable"
	}
}

// Percent renders 12 as "12%" and 12.5 as "12.5%"
func Percent(v float64) string {
	return contracts.FormatNumber(v) + "%"
}

// Crores renders a rupee amount in crores with thousands separators
func Crores(v float64) string {
	return printer.Sprintf("₹%.0f Cr", v)
}

// Bullets prefixes each item with "• "
func Bullets(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "• " + item
	}
	return out
}

// Truncate cuts s to n runes
func Truncate(s string, n int) string {
	if n < 0 || width(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// StripANSI removes the bold sequences added by Styler
func StripANSI(s string) string {
	return strings.NewReplacer("\033[1;36m", "", "\033[0m", "").Replace(s)
}
