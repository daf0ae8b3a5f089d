package ui

import (
	"testing"

	"github.com/lexam-dev/lexview/internal/lexam"
)

// A draft built from a form where only name and model were filled must not
// carry the tuning fields at all: the update route applies every key it
// receives, so explicit zeros would wipe stored values.
func TestBuildDraftLeavesBlankFieldsNil(t *testing.T) {
	e := newExperimentsState()
	e.nameInput.SetValue("baseline")
	e.modelInput.SetValue("Qwen/Qwen3-14B")

	draft, errMsg := e.buildDraft()
	if errMsg != "" {
		t.Fatalf("buildDraft error = %q", errMsg)
	}
	if draft.Name != "baseline" {
		t.Fatalf("Name = %q", draft.Name)
	}
	if draft.ModelName == nil || *draft.ModelName != "Qwen/Qwen3-14B" {
		t.Fatalf("ModelName = %v", draft.ModelName)
	}
	if draft.Temperature != nil || draft.MaxTokens != nil || draft.NAnswers != nil {
		t.Fatalf("blank tuning fields populated: temp=%v maxTokens=%v nAnswers=%v",
			draft.Temperature, draft.MaxTokens, draft.NAnswers)
	}
	if draft.JudgeTemperature != nil || draft.JudgeMaxTokens != nil {
		t.Fatalf("judge tuning fields populated: %v %v", draft.JudgeTemperature, draft.JudgeMaxTokens)
	}
}

func TestBuildDraftParsesTuningFields(t *testing.T) {
	e := newExperimentsState()
	e.nameInput.SetValue("tuned")
	e.tempInput.SetValue("0.9")
	e.maxTokensInput.SetValue("4096")
	e.nAnswersInput.SetValue("3")

	draft, errMsg := e.buildDraft()
	if errMsg != "" {
		t.Fatalf("buildDraft error = %q", errMsg)
	}
	if draft.Temperature == nil || *draft.Temperature != 0.9 {
		t.Fatalf("Temperature = %v", draft.Temperature)
	}
	if draft.MaxTokens == nil || *draft.MaxTokens != 4096 {
		t.Fatalf("MaxTokens = %v", draft.MaxTokens)
	}
	if draft.NAnswers == nil || *draft.NAnswers != 3 {
		t.Fatalf("NAnswers = %v", draft.NAnswers)
	}
	if draft.ModelName != nil {
		t.Fatalf("blank model populated: %v", draft.ModelName)
	}
}

func TestBuildDraftValidation(t *testing.T) {
	cases := []struct {
		name  string
		setup func(e *experimentsState)
	}{
		{"blank name", func(e *experimentsState) {
			e.nameInput.SetValue("   ")
		}},
		{"non-numeric temperature", func(e *experimentsState) {
			e.nameInput.SetValue("x")
			e.tempInput.SetValue("warm")
		}},
		{"negative temperature", func(e *experimentsState) {
			e.nameInput.SetValue("x")
			e.tempInput.SetValue("-1")
		}},
		{"zero max tokens", func(e *experimentsState) {
			e.nameInput.SetValue("x")
			e.maxTokensInput.SetValue("0")
		}},
		{"zero runs", func(e *experimentsState) {
			e.nameInput.SetValue("x")
			e.nAnswersInput.SetValue("0")
		}},
	}
	for _, tc := range cases {
		e := newExperimentsState()
		tc.setup(&e)
		if _, errMsg := e.buildDraft(); errMsg == "" {
			t.Errorf("%s: buildDraft accepted invalid input", tc.name)
		}
	}
}

// Editing prefills every form field so an untouched field submits its
// current value instead of resetting it.
func TestOpenFormPrefillsForEdit(t *testing.T) {
	m := New(Options{})
	exp := lexam.Experiment{
		ID:          9,
		Name:        "baseline",
		ModelName:   "Qwen/Qwen3-14B",
		Temperature: 0.7,
		MaxTokens:   2048,
		NAnswers:    2,
	}
	m.openForm(&exp)

	e := &m.exps
	if e.formEditID != 9 {
		t.Fatalf("formEditID = %d", e.formEditID)
	}
	if e.nameInput.Value() != "baseline" || e.modelInput.Value() != "Qwen/Qwen3-14B" {
		t.Fatalf("name/model prefill = %q, %q", e.nameInput.Value(), e.modelInput.Value())
	}
	if e.tempInput.Value() != "0.7" || e.maxTokensInput.Value() != "2048" || e.nAnswersInput.Value() != "2" {
		t.Fatalf("tuning prefill = %q, %q, %q",
			e.tempInput.Value(), e.maxTokensInput.Value(), e.nAnswersInput.Value())
	}

	draft, errMsg := e.buildDraft()
	if errMsg != "" {
		t.Fatalf("buildDraft error = %q", errMsg)
	}
	if draft.Temperature == nil || *draft.Temperature != 0.7 ||
		draft.MaxTokens == nil || *draft.MaxTokens != 2048 ||
		draft.NAnswers == nil || *draft.NAnswers != 2 {
		t.Fatalf("prefilled draft lost tuning values: %#v", draft)
	}

	m.openForm(nil)
	if e.formEditID != 0 || e.nameInput.Value() != "" || e.tempInput.Value() != "" {
		t.Fatalf("create form not cleared after edit")
	}
}

func TestFormFocusWraps(t *testing.T) {
	e := newExperimentsState()
	n := len(e.formInputs())

	e.focusFormField(0)
	e.focusFormField(e.formFocus - 1)
	if e.formFocus != n-1 {
		t.Fatalf("backward wrap: focus = %d, want %d", e.formFocus, n-1)
	}
	e.focusFormField(e.formFocus + 1)
	if e.formFocus != 0 {
		t.Fatalf("forward wrap: focus = %d, want 0", e.formFocus)
	}
	for i, in := range e.formInputs() {
		if got := in.Focused(); got != (i == 0) {
			t.Fatalf("input %d focused = %v", i, got)
		}
	}
}
