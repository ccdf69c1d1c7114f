package repository

import (
	"testing"

	"headline-radar/internal/domain"
)

func TestModelMeansRoundTrip(t *testing.T) {
	in := map[domain.ModelName]float64{
		domain.ModelGeneral:          0.2,
		domain.ModelFinancialLexicon: 0.5,
	}

	raw, err := marshalModelMeans(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, err := unmarshalModelMeans(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d entries, got %d", len(in), len(out))
	}
	for model, want := range in {
		if got := out[model]; got != want {
			t.Errorf("model %s: got %v, want %v", model, got, want)
		}
	}
}

func TestModelMeansNilMarshalsToEmptyObject(t *testing.T) {
	raw, err := marshalModelMeans(nil)
	if err != nil {
		t.Fatalf("marshal nil: %v", err)
	}
	if string(raw) != "{}" {
		t.Errorf("expected empty object, got %s", raw)
	}
}

func TestUnmarshalModelMeansEmptyInput(t *testing.T) {
	out, err := unmarshalModelMeans(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty map, got %v", out)
	}
}

func TestUnmarshalModelMeansRejectsGarbage(t *testing.T) {
	if _, err := unmarshalModelMeans([]byte("not-json")); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestTextArrayNeverNil(t *testing.T) {
	if textArray(nil) == nil {
		t.Error("nil slice should become empty slice")
	}
	in := []string{"a"}
	out := textArray(in)
	if len(out) != 1 || out[0] != "a" {
		t.Errorf("non-nil slice should pass through, got %v", out)
	}
}
