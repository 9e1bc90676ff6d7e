package extract

import (
	"testing"
	"time"

	"github.com/conflictlab/micrag/internal/core/domain"
)

func TestExtract_FilenameCompactDate(t *testing.T) {
	e := NewExtractor()

	meta := e.Extract("USA_20230115_report.txt")
	if meta.Status != domain.ExtractionMatched {
		t.Fatalf("expected matched, got %s", meta.Status)
	}
	if meta.CountryCode != "USA" {
		t.Errorf("expected country USA, got %s", meta.CountryCode)
	}
	want := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	if !meta.PublishedDate.Equal(want) {
		t.Errorf("expected date %v, got %v", want, meta.PublishedDate)
	}
	if meta.PublishedISO() != "2023-01-15" {
		t.Errorf("expected ISO 2023-01-15, got %s", meta.PublishedISO())
	}
}

func TestExtract_FilenameWithDirectory(t *testing.T) {
	e := NewExtractor()

	meta := e.Extract("data/2023/USA_20230115_report.txt")
	if meta.Status != domain.ExtractionMatched {
		t.Fatalf("expected matched, got %s", meta.Status)
	}
	if meta.CountryCode != "USA" {
		t.Errorf("expected country USA, got %s", meta.CountryCode)
	}
}

func TestExtract_FilenameISODate(t *testing.T) {
	e := NewExtractor()

	meta := e.Extract("IRQ-2004-03-20_article.txt")
	if meta.Status != domain.ExtractionMatched {
		t.Fatalf("expected matched, got %s", meta.Status)
	}
	if meta.CountryCode != "IRQ" {
		t.Errorf("expected country IRQ, got %s", meta.CountryCode)
	}
	if meta.PublishedISO() != "2004-03-20" {
		t.Errorf("expected ISO 2004-03-20, got %s", meta.PublishedISO())
	}
}

func TestExtract_Unmatched(t *testing.T) {
	e := NewExtractor()

	for _, identifier := range []string{
		"random_notes.txt",
		"",
		"   ",
		"usa_20230115.txt", // lowercase code is not a convention
	} {
		meta := e.Extract(identifier)
		if meta.Status != domain.ExtractionUnmatched {
			t.Errorf("Extract(%q): expected unmatched, got %s", identifier, meta.Status)
		}
		if meta.CountryCode != "" {
			t.Errorf("Extract(%q): expected empty country, got %s", identifier, meta.CountryCode)
		}
		if !meta.PublishedDate.IsZero() {
			t.Errorf("Extract(%q): expected zero date, got %v", identifier, meta.PublishedDate)
		}
	}
}

func TestExtract_InvalidDateDegradesToUnmatched(t *testing.T) {
	e := NewExtractor()

	// Month 13 matches the pattern shape but is not a real date
	meta := e.Extract("USA_20231315_report.txt")
	if meta.Status != domain.ExtractionUnmatched {
		t.Fatalf("expected unmatched for month 13, got %s", meta.Status)
	}
	if meta.CountryCode != "" || !meta.PublishedDate.IsZero() {
		t.Error("degraded extraction must not carry partial fields")
	}
}

func TestExtract_ContentDyad(t *testing.T) {
	e := NewExtractor()

	content := "USA-IRQ\nSVM score: 0.94\nBaghdad, January 15, 2023, Sunday\nTroops clashed near the border."
	meta := e.Extract(content)
	if meta.Status != domain.ExtractionMatched {
		t.Fatalf("expected matched, got %s", meta.Status)
	}
	if meta.CountryCode != "USA-IRQ" {
		t.Errorf("expected dyad USA-IRQ, got %s", meta.CountryCode)
	}
	if meta.PublishedISO() != "2023-01-15" {
		t.Errorf("expected ISO 2023-01-15, got %s", meta.PublishedISO())
	}
}

func TestExtract_ContentDyadWithoutDate(t *testing.T) {
	e := NewExtractor()

	meta := e.Extract("IND-PAK\nShelling reported along the line of control.")
	if meta.Status != domain.ExtractionMatched {
		t.Fatalf("expected matched, got %s", meta.Status)
	}
	if meta.CountryCode != "IND-PAK" {
		t.Errorf("expected dyad IND-PAK, got %s", meta.CountryCode)
	}
	if !meta.PublishedDate.IsZero() {
		t.Errorf("expected no date, got %v", meta.PublishedDate)
	}
}

func TestExtract_ContentInvalidLongDate(t *testing.T) {
	e := NewExtractor()

	meta := e.Extract("USA-IRQ\nPublished February 30, 2023, Thursday")
	if meta.Status != domain.ExtractionUnmatched {
		t.Fatalf("expected unmatched for February 30, got %s", meta.Status)
	}
}

func TestExtract_FirstMatchWins(t *testing.T) {
	e := NewExtractor()

	// Base name carries both a filename convention and a dyad-shaped
	// token; the filename rule is registered first and must win.
	meta := e.Extract("USA_20230115_IND-PAK.txt")
	if meta.CountryCode != "USA" {
		t.Errorf("expected filename rule to win with USA, got %s", meta.CountryCode)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewExtractor()

	a := e.Extract("USA_20230115_report.txt")
	b := e.Extract("USA_20230115_report.txt")
	if a != b {
		t.Errorf("extraction is not deterministic: %+v vs %+v", a, b)
	}
}
