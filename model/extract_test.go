package model

import "testing"

func TestExtractJSON_PlainObject(t *testing.T) {
	ex := ExtractJSON(`{"voice": "bold", "score": 3}`)
	if !ex.Parsed {
		t.Fatalf("expected parse, got fallback: %+v", ex)
	}
	if ex.Value["voice"] != "bold" || ex.Value["score"].(float64) != 3 {
		t.Fatalf("unexpected value: %#v", ex.Value)
	}
}

func TestExtractJSON_FencedBlock(t *testing.T) {
	text := "Here you go:\n```json\n{\"learnings\": [\"shorter posts\"]}\n```\nanything else?"
	ex := ExtractJSON(text)
	if !ex.Parsed {
		t.Fatalf("expected parse, got fallback: %+v", ex)
	}
	if _, ok := ex.Value["learnings"]; !ok {
		t.Fatalf("unexpected value: %#v", ex.Value)
	}
}

func TestExtractJSON_EmbeddedObject(t *testing.T) {
	text := `Sure! The analysis is {"tone": "it was {mixed}", "ok": true} overall.`
	ex := ExtractJSON(text)
	if !ex.Parsed {
		t.Fatalf("expected parse, got fallback: %+v", ex)
	}
	if ex.Value["tone"] != "it was {mixed}" {
		t.Fatalf("quote-aware span extraction broken: %#v", ex.Value)
	}
}

func TestExtractJSON_Fallback(t *testing.T) {
	text := "no structure here, just prose"
	ex := ExtractJSON(text)
	if ex.Parsed {
		t.Fatalf("expected fallback, got parse: %#v", ex.Value)
	}
	if ex.Raw != text {
		t.Errorf("fallback must carry the raw text")
	}
}

func TestExtractJSON_MalformedBraces(t *testing.T) {
	ex := ExtractJSON("{broken: json")
	if ex.Parsed {
		t.Fatal("malformed input must not parse")
	}
}
