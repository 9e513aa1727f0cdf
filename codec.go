package feedback

import (
	"context"
	"encoding/json"

	"github.com/zoobzio/capitan"
	"gopkg.in/yaml.v3"
)

// Codec defines the deserialization contract for byte-oriented sources.
// Implement this interface to use alternative formats like TOML, HCL, or
// custom binary formats.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// Ensure JSONCodec implements Codec.
var _ Codec = JSONCodec{}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// Ensure YAMLCodec implements Codec.
var _ Codec = YAMLCodec{}

type decodedSource[E any] struct {
	src   Source[[]byte]
	codec Codec
}

// DecodedSource adapts a byte-oriented source (such as FileSource) into a
// typed event source by unmarshaling each payload with the codec. Payloads
// that fail to decode are dropped; a SourceDecodeFailed signal records each
// drop.
func DecodedSource[E any](src Source[[]byte], codec Codec) Source[E] {
	return decodedSource[E]{src: src, codec: codec}
}

func (d decodedSource[E]) Events(ctx context.Context) (<-chan E, error) {
	in, err := d.src.Events(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan E)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				var e E
				if err := d.codec.Unmarshal(raw, &e); err != nil {
					capitan.Emit(ctx, SourceDecodeFailed,
						KeyError.Field(err.Error()),
					)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
