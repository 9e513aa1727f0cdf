package feedback

import (
	"testing"
	"time"
)

func TestKeyState(t *testing.T) {
	field := KeyState.Field("running")
	if field.Key().Name() != "state" {
		t.Errorf("expected key name 'state', got %q", field.Key().Name())
	}
}

func TestKeyOldState(t *testing.T) {
	field := KeyOldState.Field("idle")
	if field.Key().Name() != "old_state" {
		t.Errorf("expected key name 'old_state', got %q", field.Key().Name())
	}
}

func TestKeyNewState(t *testing.T) {
	field := KeyNewState.Field("running")
	if field.Key().Name() != "new_state" {
		t.Errorf("expected key name 'new_state', got %q", field.Key().Name())
	}
}

func TestKeyError(t *testing.T) {
	field := KeyError.Field("boom")
	if field.Key().Name() != "error" {
		t.Errorf("expected key name 'error', got %q", field.Key().Name())
	}
}

func TestKeyEffectID(t *testing.T) {
	field := KeyEffectID.Field(7)
	if field.Key().Name() != "effect_id" {
		t.Errorf("expected key name 'effect_id', got %q", field.Key().Name())
	}
}

func TestKeyEffectKind(t *testing.T) {
	field := KeyEffectKind.Field("perform")
	if field.Key().Name() != "effect_kind" {
		t.Errorf("expected key name 'effect_kind', got %q", field.Key().Name())
	}
}

func TestKeyDuration(t *testing.T) {
	field := KeyDuration.Field(5 * time.Millisecond)
	if field.Key().Name() != "duration" {
		t.Errorf("expected key name 'duration', got %q", field.Key().Name())
	}
}

func TestKeyDebounce(t *testing.T) {
	field := KeyDebounce.Field(100 * time.Millisecond)
	if field.Key().Name() != "debounce" {
		t.Errorf("expected key name 'debounce', got %q", field.Key().Name())
	}
}

func TestKeyGeneration(t *testing.T) {
	field := KeyGeneration.Field(3)
	if field.Key().Name() != "generation" {
		t.Errorf("expected key name 'generation', got %q", field.Key().Name())
	}
}
