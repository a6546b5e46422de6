package interleave

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func abs(name string) string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(wd, name)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			name: "zip ok",
			d:    Descriptor{Mode: Zip, Inputs: []string{"a", "b"}, Outputs: []string{"o"}, BlockSizes: []int64{1, 2}},
		},
		{
			name: "unzip ok",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"i"}, Outputs: []string{"a", "b"}, BlockSizes: []int64{1, 2}},
		},
		{
			name: "zip one input",
			d:    Descriptor{Mode: Zip, Inputs: []string{"a"}, Outputs: []string{"o"}, BlockSizes: []int64{1}},
			want: "--input must be provided at least twice when zipping.",
		},
		{
			name: "zip block count",
			d:    Descriptor{Mode: Zip, Inputs: []string{"a", "b"}, Outputs: []string{"o"}, BlockSizes: []int64{1}},
			want: "--num-bytes must be provided once for each --input when zipping.",
		},
		{
			name: "zip two outputs",
			d:    Descriptor{Mode: Zip, Inputs: []string{"a", "b"}, Outputs: []string{"o", "p"}, BlockSizes: []int64{1, 1}},
			want: "--output must be provided once when zipping.",
		},
		{
			name: "unzip two inputs",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"i", "j"}, Outputs: []string{"a", "b"}, BlockSizes: []int64{1, 1}},
			want: "--input must be provided once when unzipping.",
		},
		{
			name: "unzip one output",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"i"}, Outputs: []string{"a"}, BlockSizes: []int64{1}},
			want: "--output must be provided at least twice when unzipping.",
		},
		{
			name: "unzip block count",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"i"}, Outputs: []string{"a", "b"}, BlockSizes: []int64{1, 1, 1}},
			want: "--num-bytes must be provided once for each --output when unzipping.",
		},
		{
			name: "zero block",
			d:    Descriptor{Mode: Zip, Inputs: []string{"a", "b"}, Outputs: []string{"o"}, BlockSizes: []int64{1, 0}},
			want: "--num-bytes must be a positive integer, got 0 for stream 2",
		},
		{
			name: "overflow",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"i"}, Outputs: []string{"a", "b"}, BlockSizes: []int64{math.MaxInt64, 1}},
			want: "--num-bytes total overflows a 64-bit byte count",
		},
		{
			name: "output overwrites input",
			d:    Descriptor{Mode: Zip, Inputs: []string{"a", "dir/../b"}, Outputs: []string{"b"}, BlockSizes: []int64{1, 1}},
			want: "output b is also used as an input",
		},
		{
			name: "output is input as file url",
			d:    Descriptor{Mode: Zip, Inputs: []string{"file://" + abs("a.bin"), "b.bin"}, Outputs: []string{"a.bin"}, BlockSizes: []int64{1, 1}},
			want: "output a.bin is also used as an input",
		},
		{
			name: "output is input relative and absolute",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"in.bin"}, Outputs: []string{"x.bin", abs("in.bin")}, BlockSizes: []int64{1, 1}},
			want: "output " + abs("in.bin") + " is also used as an input",
		},
		{
			name: "duplicate output spelled two ways",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"i"}, Outputs: []string{"./x.bin", "file://x.bin"}, BlockSizes: []int64{1, 1}},
			want: "output file://x.bin is also used as an output",
		},
		{
			name: "duplicate output",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"i"}, Outputs: []string{"-", "-"}, BlockSizes: []int64{1, 1}},
			want: "output - is also used as an output",
		},
		{
			name: "stdin twice",
			d:    Descriptor{Mode: Zip, Inputs: []string{"-", "-"}, Outputs: []string{"o"}, BlockSizes: []int64{1, 1}},
			want: "standard input can only be used as one input",
		},
		{
			name: "stdin in stdout out",
			d:    Descriptor{Mode: Unzip, Inputs: []string{"-"}, Outputs: []string{"-", "b"}, BlockSizes: []int64{1, 1}},
		},
		{
			name: "unknown mode",
			d:    Descriptor{Mode: "shuffle"},
			want: `unsupported mode "shuffle"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error %q", tc.want)
			}
			if _, ok := err.(*ConfigError); !ok {
				t.Fatalf("Validate() error type = %T, want *ConfigError", err)
			}
			if err.Error() != tc.want {
				t.Fatalf("Validate() error = %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestRoundSize(t *testing.T) {
	d := Descriptor{BlockSizes: []int64{32, 16}}
	if got := d.RoundSize(); got != 48 {
		t.Fatalf("RoundSize() = %d, want 48", got)
	}
}
