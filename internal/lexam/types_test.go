package lexam

import (
	"encoding/json"
	"testing"
)

func TestProgressReport_Terminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"pending", false},
		{"running", false},
		{"done", true},
		{"error", true},
		{"idle", true},
		{"", false},
	}
	for _, tt := range tests {
		p := ProgressReport{Status: tt.status}
		if got := p.Terminal(); got != tt.want {
			t.Errorf("Terminal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestExperiment_Busy(t *testing.T) {
	for _, status := range []string{"generating", "judging"} {
		if !(Experiment{Status: status}).Busy() {
			t.Errorf("Busy(%q) = false, want true", status)
		}
	}
	for _, status := range []string{"created", "generated", "completed", ""} {
		if (Experiment{Status: status}).Busy() {
			t.Errorf("Busy(%q) = true, want false", status)
		}
	}
}

func TestVariant_ChoiceList(t *testing.T) {
	v := Variant{Choices: json.RawMessage(`["choice a", "choice b"]`)}
	got := v.ChoiceList()
	if len(got) != 2 || got[0] != "choice a" {
		t.Fatalf("ChoiceList = %v, want two choices", got)
	}
	if (Variant{}).ChoiceList() != nil {
		t.Fatalf("empty choices should decode to nil")
	}
	if (Variant{Choices: json.RawMessage(`"oops"`)}).ChoiceList() != nil {
		t.Fatalf("malformed choices should decode to nil")
	}
}

func TestParseTime_AcceptsBackendFormats(t *testing.T) {
	for _, value := range []string{
		"2025-06-01T12:30:00Z",
		"2025-06-01T12:30:00.123456",
	} {
		if parseTime(value).IsZero() {
			t.Errorf("parseTime(%q) = zero, want parsed", value)
		}
	}
	if !parseTime("").IsZero() {
		t.Errorf("parseTime(\"\") should be zero")
	}
	if !parseTime("not-a-time").IsZero() {
		t.Errorf("parseTime garbage should be zero")
	}
}

func TestDashboard_DecodesBackendPayload(t *testing.T) {
	payload := `{
		"total_questions": 340,
		"courses": [{"course": "Contract Law", "area": "Private", "count": 40, "lang_de": 30, "lang_en": 10}],
		"years": [{"year": 2022, "Private": 10, "Public": 5, "Criminal": 3, "Interdisciplinary": 2, "total": 20}],
		"splits": [{"name": "dev", "value": 50, "pct": "25%"}],
		"lang_area": [{"area": "Private", "de": 100, "en": 20}]
	}`
	var dash Dashboard
	if err := json.Unmarshal([]byte(payload), &dash); err != nil {
		t.Fatalf("unmarshal dashboard: %v", err)
	}
	if dash.Courses[0].LangDE != 30 || dash.Years[0].Total != 20 ||
		dash.Splits[0].Pct != "25%" || dash.LangArea[0].DE != 100 {
		t.Fatalf("decoded dashboard = %#v", dash)
	}
}
