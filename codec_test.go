package feedback

import (
	"context"
	"testing"
	"time"
)

type tickEvent struct {
	Kind  string `json:"kind" yaml:"kind"`
	Delta int    `json:"delta" yaml:"delta"`
}

func TestJSONCodec_Unmarshal(t *testing.T) {
	var e tickEvent
	if err := (JSONCodec{}).Unmarshal([]byte(`{"kind":"tick","delta":2}`), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.Kind != "tick" || e.Delta != 2 {
		t.Errorf("unexpected event %+v", e)
	}
	if ct := (JSONCodec{}).ContentType(); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestYAMLCodec_Unmarshal(t *testing.T) {
	var e tickEvent
	if err := (YAMLCodec{}).Unmarshal([]byte("kind: tick\ndelta: 3"), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.Kind != "tick" || e.Delta != 3 {
		t.Errorf("unexpected event %+v", e)
	}
	if ct := (YAMLCodec{}).ContentType(); ct != "application/x-yaml" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestDecodedSource_EmitsTypedEvents(t *testing.T) {
	raw := make(chan []byte, 2)
	raw <- []byte(`{"kind":"tick","delta":1}`)
	raw <- []byte(`{"kind":"tick","delta":2}`)
	close(raw)

	src := DecodedSource[tickEvent](NewChannelSource(raw), JSONCodec{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := src.Events(ctx)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}

	for _, want := range []int{1, 2} {
		select {
		case e := <-out:
			if e.Delta != want {
				t.Errorf("expected delta %d, got %d", want, e.Delta)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for decoded event")
		}
	}
}

func TestDecodedSource_DropsUndecodablePayloads(t *testing.T) {
	raw := make(chan []byte, 2)
	raw <- []byte(`not json`)
	raw <- []byte(`{"kind":"tick","delta":5}`)
	close(raw)

	src := DecodedSource[tickEvent](NewChannelSource(raw), JSONCodec{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := src.Events(ctx)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}

	select {
	case e := <-out:
		if e.Delta != 5 {
			t.Errorf("expected the valid payload only, got %+v", e)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for decoded event")
	}
}
