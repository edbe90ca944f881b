package shader

import (
	"fmt"
	"strings"
)

// PreProcessor expands @oxy: directives in WGSL source. Include directives paste a
// shared struct definition; group directives become @group/@binding declarations and
// are recorded so effects can find the buffers they must bind.
type PreProcessor interface {
	// Process returns the source with every directive line replaced. It clears the
	// declarations of any previous call.
	//
	// Parameters:
	//   - source: WGSL source with @oxy: directives
	//
	// Returns:
	//   - string: plain WGSL
	//   - error: error naming the line of the first malformed directive
	Process(source string) (string, error)

	// Declarations returns the group directives of the last Process call in source order.
	//
	// Returns:
	//   - []Annotation: the generated binding declarations
	Declarations() []Annotation
}

type preProcessor struct {
	declarations []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a pre-processor that knows the light and vertex structs.
//
// Returns:
//   - PreProcessor: the pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	var b strings.Builder
	b.Grow(len(source))
	for i, line := range strings.Split(source, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		_, rest, found := strings.Cut(strings.TrimSpace(line), annotationPrefix)
		if !found {
			b.WriteString(line)
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return "", fmt.Errorf("line %d: empty @oxy directive", i+1)
		}
		expand, ok := directives[fields[0]]
		if !ok {
			return "", fmt.Errorf("line %d: unknown @oxy directive %q", i+1, fields[0])
		}
		wgsl, a, err := expand(fields[1:], i+1)
		if err != nil {
			return "", fmt.Errorf("line %d: @oxy:%s: %w", i+1, fields[0], err)
		}
		if a.Type == AnnotationTypeBindingGroup {
			p.declarations = append(p.declarations, *a)
		}
		b.WriteString(wgsl)
	}
	return b.String(), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
