package usecase

import (
	"testing"

	"github.com/kirillkom/docuvault/internal/core/domain"
)

func TestClassifyContent(t *testing.T) {
	cases := []struct {
		name string
		text string
		want domain.ContentClass
	}{
		{"invoice is official", "INVOICE #42 due on receipt", domain.ClassOfficial},
		{"sale is ad", "Huge SALE this weekend only", domain.ClassAd},
		{"official beats ad", "Contract renewal offer: special discount inside", domain.ClassOfficial},
		{"unsubscribe alone is ad", "Reply to unsubscribe from this list", domain.ClassAd},
		{"case insensitive", "LIMITED TIME deal", domain.ClassAd},
		{"no markers", "Meeting notes from Tuesday", domain.ClassUnknown},
		{"empty text", "", domain.ClassUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyContent(tc.text); got != tc.want {
				t.Fatalf("ClassifyContent(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
