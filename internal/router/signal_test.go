package router

import (
	"testing"

	"github.com/ntw-markets/supportbot/internal/intake"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind ReplyKind
		wantCat  intake.Category
	}{
		{"plain answer", "Commissions are paid per lot.", ReplyAnswer, ""},
		{"escalation", "[ESCALATE:technical]", ReplyEscalate, intake.CategoryTechnical},
		{"escalation with whitespace", "  [ESCALATE:commission]\n", ReplyEscalate, intake.CategoryCommission},
		{"unknown category maps to general", "[ESCALATE:billing]", ReplyEscalate, intake.CategoryGeneral},
		{"copy trading", "[ESCALATE:copy_trading]", ReplyEscalate, intake.CategoryCopyTrading},
		{"tag inside prose is an answer", "Sure! [ESCALATE:technical] is what I'd send.", ReplyAnswer, ""},
		{"tag with trailing prose is an answer", "[ESCALATE:technical] Let me help.", ReplyAnswer, ""},
		{"missing category is an answer", "[ESCALATE:]", ReplyAnswer, ""},
		{"lowercase keyword is an answer", "[escalate:technical]", ReplyAnswer, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReply(tt.raw)
			if got.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Kind == ReplyEscalate && got.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCat)
			}
			if got.Kind == ReplyAnswer && got.Text != tt.raw {
				t.Errorf("Text = %q, want raw input", got.Text)
			}
		})
	}
}
