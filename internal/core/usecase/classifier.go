package usecase

import (
	"strings"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

// Financial/legal markers. A single hit classifies the text as
// official, even when ad markers are present too.
var officialTerms = []string{
	"contract",
	"agreement",
	"invoice",
	"receipt",
	"legal",
	"terms and conditions",
	"warranty",
	"policy",
	"compliance",
	"regulation",
}

// Promotional markers.
var adTerms = []string{
	"sale",
	"discount",
	"limited time",
	"unsubscribe",
	"promotion",
	"offer",
	"deal",
	"special",
	"buy now",
	"act now",
}

// ClassifyContent buckets free text into official/ad/unknown by
// case-insensitive substring match. Official terms take precedence
// over ad terms.
func ClassifyContent(text string) domain.ContentClass {
	lower := strings.ToLower(text)

	if containsAny(lower, officialTerms) {
		return domain.ClassOfficial
	}
	if containsAny(lower, adTerms) {
		return domain.ClassAd
	}
	return domain.ClassUnknown
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
