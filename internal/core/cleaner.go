package core

import "strings"

// Predicate reports whether a record should be removed from the working set.
type Predicate func(ShipmentRecord) bool

// QuoteTagRule matches records whose raw tag field contains token, or its
// "-ation" noun form, ignoring case. "Quote" therefore removes "CSRM, Quote",
// "Quoted" and "Quotation" but keeps "Quota" and "Quotient". Records without
// tags never match, and nothing matches when token is blank.
func QuoteTagRule(token string) Predicate {
	needles := tagNeedles(strings.ToLower(strings.TrimSpace(token)))
	return func(r ShipmentRecord) bool {
		if len(needles) == 0 || !r.HasTags() {
			return false
		}
		label := strings.ToLower(r.TagLabel)
		for _, n := range needles {
			if strings.Contains(label, n) {
				return true
			}
		}
		return false
	}
}

// tagNeedles returns token and, for tokens longer than three letters ending
// in "e", the noun formed by replacing that "e" with "ation".
func tagNeedles(token string) []string {
	if token == "" {
		return nil
	}
	needles := []string{token}
	if len(token) > 3 && strings.HasSuffix(token, "e") {
		needles = append(needles, token[:len(token)-1]+"ation")
	}
	return needles
}

// Exclude returns a copy of set without the records pred matches, preserving
// input order, and the number removed. The input set is not modified.
// A nil predicate removes nothing.
func Exclude(set *ShipmentSet, pred Predicate) (*ShipmentSet, int) {
	if set == nil {
		return &ShipmentSet{}, 0
	}

	working := *set
	working.Records = make([]ShipmentRecord, 0, len(set.Records))

	excluded := 0
	for _, rec := range set.Records {
		if pred != nil && pred(rec) {
			excluded++
			continue
		}
		working.Records = append(working.Records, rec)
	}

	working.ExcludedByTagRule = set.ExcludedByTagRule + excluded
	return &working, excluded
}
