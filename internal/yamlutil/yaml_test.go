package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-htmlloader/internal/yamlutil"
)

type transformSettings struct {
	Scope    string `yaml:"scope"`
	Minimize bool   `yaml:"minimize"`
	Workers  int    `yaml:"workers"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		dest    any
		want    transformSettings
		wantErr error
	}{
		{
			name: "known fields",
			data: "scope: card\nminimize: true\nworkers: 4",
			dest: &transformSettings{},
			want: transformSettings{Scope: "card", Minimize: true, Workers: 4},
		},
		{
			name: "unknown fields ignored",
			data: "scope: card\ncolor: red",
			dest: &transformSettings{},
			want: transformSettings{Scope: "card"},
		},
		{
			name:    "empty data",
			dest:    &transformSettings{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    "scope: card",
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal([]byte(tt.data), tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got := *tt.dest.(*transformSettings); got != tt.want {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshal_SyntaxError(t *testing.T) {
	t.Parallel()

	err := yamlutil.Unmarshal([]byte("scope: [unclosed"), &transformSettings{})
	if err == nil || !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("Unmarshal() error = %v, want yamlutil-prefixed error", err)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Unknown fields rejected
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var s transformSettings
	if err := yamlutil.UnmarshalStrict([]byte("scope: card\nminimize: false"), &s); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if s.Scope != "card" {
		t.Errorf("Scope = %q, want card", s.Scope)
	}

	err := yamlutil.UnmarshalStrict([]byte("scope: card\ncolour: red"), &transformSettings{})
	if err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("UnmarshalStrict() error = %v, want unknown field error", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Encoding and limits
// ---------------------------------------------------------------------------

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	in := transformSettings{Scope: "nav", Minimize: true, Workers: 2}
	data, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out transformSettings
	if err := yamlutil.UnmarshalStrict(data, &out); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestInputSizeLimit(t *testing.T) {
	t.Parallel()

	big := []byte("scope: " + strings.Repeat("a", yamlutil.MaxInputSize))
	if err := yamlutil.Unmarshal(big, &transformSettings{}); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal() error = %v, want ErrInputTooLarge", err)
	}
}
