package router

import (
	"sort"
	"strings"
	"unicode"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/ruleconfig"
	"github.com/opsatya/ved/internal/store"
)

// Match is the outcome of resolving free text to a stock.
// When Stock is nil and Alias is set, the text named a known alias whose
// stock is not loaded.
type Match struct {
	Stock *contracts.Stock
	Alias string
}

// Found reports a resolved stock
func (m Match) Found() bool {
	return m.Stock != nil
}

// Resolver maps query text onto stocks in the store
type Resolver struct {
	stocks *store.Store
	rules  ruleconfig.Resolution
}

// NewResolver creates a resolver over stocks
func NewResolver(stocks *store.Store, rules ruleconfig.Resolution) *Resolver {
	return &Resolver{stocks: stocks, rules: rules}
}

// ResolveStock tries, in order: exact case-insensitive name, shared name
// tokens (most shared tokens wins, ties go to load order), then the
// abbreviation table for abbreviations whose full name is loaded.
func (r *Resolver) ResolveStock(query string) Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Match{}
	}

	if stock, err := r.stocks.Get(q); err == nil {
		return Match{Stock: stock}
	}

	tokens := tokenSet(q)
	var best *contracts.Stock
	bestShared := 0
	for _, stock := range r.stocks.All() {
		shared := 0
		for t := range tokenSet(strings.ToLower(stock.Name)) {
			if _, ok := tokens[t]; ok {
				shared++
			}
		}
		if shared > bestShared {
			best, bestShared = stock, shared
		}
	}
	if best != nil {
		return Match{Stock: best}
	}

	var missing string
	for _, abbr := range r.rules.Abbreviations {
		if !strings.Contains(q, abbr.Key) {
			continue
		}
		if stock, err := r.stocks.Get(abbr.Name); err == nil {
			return Match{Stock: stock}
		}
		if missing == "" {
			missing = abbr.Name
		}
	}
	return Match{Alias: missing}
}

// ExtractStockName finds a stock for the analyze command: a loaded name
// contained in the query, then a query word (ignoring stop words) that is a
// whole token of a name, then the whole query as an alias.
func (r *Resolver) ExtractStockName(query string) Match {
	q := strings.ToLower(strings.TrimSpace(query))
	stocks := r.stocks.All()

	for _, stock := range stocks {
		if strings.Contains(q, strings.ToLower(stock.Name)) {
			return Match{Stock: stock}
		}
	}

	stop := make(map[string]struct{}, len(r.rules.StopWords))
	for _, w := range r.rules.StopWords {
		stop[w] = struct{}{}
	}
	names := make([]map[string]struct{}, len(stocks))
	for i, stock := range stocks {
		names[i] = tokenSet(strings.ToLower(stock.Name))
	}
	for _, word := range tokens(q) {
		if _, skip := stop[word]; skip {
			continue
		}
		for i, stock := range stocks {
			if _, ok := names[i][word]; ok {
				return Match{Stock: stock}
			}
		}
	}

	for _, alias := range r.rules.Aliases {
		if q != alias.Key {
			continue
		}
		if stock, err := r.stocks.Get(alias.Name); err == nil {
			return Match{Stock: stock}
		}
		return Match{Alias: alias.Name}
	}
	return Match{}
}

// Suggest returns up to SuggestLimit loaded names whose similarity to query
// exceeds SuggestThreshold, most similar first
func (r *Resolver) Suggest(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	type scored struct {
		name  string
		ratio float64
	}
	var candidates []scored
	for _, stock := range r.stocks.All() {
		ratio := similarity(q, strings.ToLower(stock.Name))
		if ratio > r.rules.SuggestThreshold {
			candidates = append(candidates, scored{stock.Name, ratio})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ratio > candidates[j].ratio })

	if len(candidates) > r.rules.SuggestLimit {
		candidates = candidates[:r.rules.SuggestLimit]
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}

// tokens splits on anything that is not a letter or digit
func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(s string) map[string]struct{} {
	fields := tokens(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
