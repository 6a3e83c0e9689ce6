package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// ErrSerialization indicates the generated module is not valid JavaScript.
var ErrSerialization = errors.New("module serialization failed")

// FallbackRenderCode is the render body used when compilation failed. The
// module still loads; rendering throws.
const FallbackRenderCode = `throw new Error("template compilation already failed at build time")`

// Serialize assembles the CommonJS renderer module:
//
//	module.exports = {
//	  render: function() { <render> },
//	  staticRenderFns: [function() { <fn> }, ...]
//	};
//
// The assembled source is printed by esbuild, which validates it and
// normalizes indentation without altering string or template literal content.
func Serialize(render string, staticRenderFns []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("module.exports = {\nrender: ")
	writeFunction(&sb, render)
	sb.WriteString(",\nstaticRenderFns: [")
	for i, fn := range staticRenderFns {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
		writeFunction(&sb, fn)
	}
	sb.WriteString("\n]\n};\n")

	res := api.Transform(sb.String(), api.TransformOptions{
		Loader:   api.LoaderJS,
		Charset:  api.CharsetUTF8,
		LogLevel: api.LogLevelSilent,
	})
	if len(res.Errors) > 0 {
		return "", fmt.Errorf("%w: %s", ErrSerialization, formatMessages(res.Errors))
	}
	return string(res.Code), nil
}

func writeFunction(sb *strings.Builder, body string) {
	sb.WriteString("function () {\n")
	sb.WriteString(body)
	sb.WriteString("\n}")
}

// MinifyCSS removes insignificant whitespace from a stylesheet.
func MinifyCSS(css string) (string, error) {
	res := api.Transform(css, api.TransformOptions{
		Loader:           api.LoaderCSS,
		MinifyWhitespace: true,
		LogLevel:         api.LogLevelSilent,
	})
	if len(res.Errors) > 0 {
		return "", fmt.Errorf("minifying stylesheet: %s", formatMessages(res.Errors))
	}
	return strings.TrimSpace(string(res.Code)), nil
}

// formatMessages joins esbuild messages with their source locations.
func formatMessages(msgs []api.Message) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		if m.Location != nil {
			parts[i] = fmt.Sprintf("%s (line %d, column %d)", m.Text, m.Location.Line, m.Location.Column+1)
			continue
		}
		parts[i] = m.Text
	}
	return strings.Join(parts, "; ")
}
