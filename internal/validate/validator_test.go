package validate

import (
	"strings"
	"testing"

	"github.com/fundfaq/fundfaq/internal/model"
	"github.com/fundfaq/fundfaq/internal/patterns"
)

func testContext(urls ...string) model.AssembledContext {
	return model.AssembledContext{
		Body:       "[Chunk 1]\nSome factual context.",
		SourceURLs: urls,
	}
}

func TestValidator_ValidAnswerUntouched(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)
	ctx := testContext("https://www.sbimf.com/scheme")

	answer := "The expense ratio of SBI Small Cap Fund is 0.68%. Last updated from sources."
	resp, result := v.ValidateAndRepair(answer, ctx)

	if !result.Pass() {
		t.Fatalf("Expected all checks to pass, got %+v", result)
	}
	if resp.Answer != answer {
		t.Errorf("Valid answer must not be modified:\n got %q\nwant %q", resp.Answer, answer)
	}
	if resp.Origin != model.OriginGenerated {
		t.Errorf("Expected generated origin, got %q", resp.Origin)
	}
	if resp.SourceURL != "https://www.sbimf.com/scheme" {
		t.Errorf("Expected context primary URL, got %q", resp.SourceURL)
	}
}

func TestValidator_Idempotent(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)
	ctx := testContext("https://www.sbimf.com/scheme")

	// Start from an answer needing repair and verify a second pass is a
	// no-op on the repaired output.
	first, result := v.ValidateAndRepair("The exit load is 1% within one year.", ctx)
	if result.Unrepairable {
		t.Fatalf("Expected repairable answer, got %+v", result)
	}

	second, result2 := v.ValidateAndRepair(first.Answer, ctx)
	if !result2.Pass() {
		t.Fatalf("Repaired answer must validate cleanly, got %+v", result2)
	}
	if second.Answer != first.Answer {
		t.Errorf("Second pass modified the answer:\n got %q\nwas %q", second.Answer, first.Answer)
	}
	if second.Origin != model.OriginGenerated {
		t.Errorf("Expected generated origin on second pass, got %q", second.Origin)
	}
}

func TestValidator_AppendsCitation(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)
	ctx := testContext("https://www.sbimf.com/scheme")

	resp, result := v.ValidateAndRepair("The minimum SIP amount is Rs. 500 per month.", ctx)

	if result.CitationOK {
		t.Error("Expected citation check to fail on the original answer")
	}
	if result.Unrepairable {
		t.Fatalf("Expected repair, got unrepairable: %+v", result)
	}
	if !strings.Contains(resp.Answer, patterns.CitationPhrase) {
		t.Errorf("Expected citation phrase appended, got %q", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "https://www.sbimf.com/scheme") {
		t.Errorf("Expected source URL appended, got %q", resp.Answer)
	}
	if resp.Origin != model.OriginRepaired {
		t.Errorf("Expected repaired origin, got %q", resp.Origin)
	}
	found := false
	for _, f := range result.Fixes {
		if strings.Contains(f, "citation") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a citation fix recorded, got %v", result.Fixes)
	}
}

func TestValidator_StripsAdviceSentences(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)
	ctx := testContext("https://www.sbimf.com/scheme")

	answer := "The expense ratio is 0.68%. You should buy it now. Last updated from sources."
	resp, result := v.ValidateAndRepair(answer, ctx)

	if result.NoAdviceOK {
		t.Error("Expected no-advice check to fail on the original answer")
	}
	if result.Unrepairable {
		t.Fatalf("Expected repair, got unrepairable: %+v", result)
	}
	if strings.Contains(resp.Answer, "buy") {
		t.Errorf("Advice sentence must be stripped, got %q", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "0.68%") {
		t.Errorf("Factual sentence must survive, got %q", resp.Answer)
	}
	if !strings.Contains(resp.Answer, patterns.CitationPhrase) {
		t.Errorf("Citation must survive repair, got %q", resp.Answer)
	}
}

func TestValidator_PureAdviceUnrepairable(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)
	ctx := testContext("https://www.sbimf.com/scheme")

	answer := "You should definitely buy this fund, it's the best option."
	_, result := v.ValidateAndRepair(answer, ctx)

	if result.NoAdviceOK {
		t.Error("Expected no-advice check to fail")
	}
	if result.FactsOnlyOK {
		t.Error("Expected facts-only check to fail")
	}
	if !result.Unrepairable {
		t.Errorf("Expected unrepairable: nothing factual survives stripping, got %+v", result)
	}
}

func TestValidator_StripsFirstPersonOpinion(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)
	ctx := testContext("https://www.sbimf.com/scheme")

	answer := "The fund is managed by Dinesh Balachandran. I think it performs well. Last updated from sources."
	resp, result := v.ValidateAndRepair(answer, ctx)

	if result.FactsOnlyOK {
		t.Error("Expected facts-only check to fail on the original answer")
	}
	if result.Unrepairable {
		t.Fatalf("Expected repair, got unrepairable: %+v", result)
	}
	if strings.Contains(strings.ToLower(resp.Answer), "i think") {
		t.Errorf("Opinion sentence must be stripped, got %q", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "Balachandran") {
		t.Errorf("Factual sentence must survive, got %q", resp.Answer)
	}
}

func TestValidator_TruncatesLongAnswers(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)
	ctx := testContext("https://www.sbimf.com/scheme")

	answer := "The expense ratio is 0.68%. The exit load is 1%. The minimum SIP is 500 rupees. " +
		"The benchmark is BSE 250 TRI. The riskometer shows very high. Last updated from sources."
	resp, result := v.ValidateAndRepair(answer, ctx)

	if result.LengthOK {
		t.Error("Expected length check to fail on the original answer")
	}
	if result.Unrepairable {
		t.Fatalf("Expected repair, got unrepairable: %+v", result)
	}
	if strings.Contains(resp.Answer, "riskometer") {
		t.Errorf("Sentences beyond the bound must be dropped, got %q", resp.Answer)
	}
	if !strings.Contains(resp.Answer, patterns.CitationPhrase) {
		t.Errorf("Citation must survive truncation, got %q", resp.Answer)
	}

	// Re-validate to confirm the truncated form is now within bounds.
	_, again := v.ValidateAndRepair(resp.Answer, ctx)
	if !again.LengthOK {
		t.Errorf("Repaired answer still over length: %q", resp.Answer)
	}
}

func TestValidator_DefaultURLWhenContextEmpty(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)

	resp, result := v.ValidateAndRepair("The expense ratio is 0.68%.", model.AssembledContext{})
	if result.Unrepairable {
		t.Fatalf("Expected repair, got unrepairable: %+v", result)
	}
	if resp.SourceURL != patterns.DefaultSourceURL {
		t.Errorf("Expected default source URL, got %q", resp.SourceURL)
	}
	if !strings.Contains(resp.Answer, patterns.DefaultSourceURL) {
		t.Errorf("Expected default URL in citation, got %q", resp.Answer)
	}
}

func TestValidator_DecimalsDoNotInflateSentenceCount(t *testing.T) {
	v := New(3, patterns.DefaultSourceURL)
	ctx := testContext("https://www.sbimf.com/scheme")

	answer := "The NAV is 145.32 as of today. The expense ratio is 0.68%. " +
		"The exit load is 1.5% within 365 days. Last updated from sources."
	_, result := v.ValidateAndRepair(answer, ctx)

	if !result.LengthOK {
		t.Errorf("Three sentences with decimals must pass the length check, got %+v", result)
	}
	if !result.Pass() {
		t.Errorf("Expected a fully valid answer, got %+v", result)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"plain", "One. Two. Three.", 3},
		{"decimals", "The ratio is 0.68%. The NAV is 145.32 today.", 2},
		{"url", "Visit https://www.sbimf.com for details. Thanks.", 2},
		{"empty", "", 0},
		{"no terminator", "unterminated text", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitSentences(tt.text); len(got) != tt.want {
				t.Errorf("splitSentences(%q) = %d sentences %v, want %d", tt.text, len(got), got, tt.want)
			}
		})
	}
}
