package cli

import "fmt"

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

func HelpText(program string) string {
	if program == "" {
		program = "hexzip"
	}
	return fmt.Sprintf(`%s %s - zips and unzips the binary data of two or more files

Usage:
  %s -i <input> -n <bytes> -i <input> -n <bytes> [...] -o <output>
  %s -u -i <input> -o <output> -n <bytes> -o <output> -n <bytes> [...]

Options:
  -i, --input <path>       Input file. Must be provided at least twice when zipping,
                           exactly once when unzipping. "-" reads standard input.
  -o, --output <path>      Output file. Must be provided exactly once when zipping,
                           at least twice when unzipping. "-" writes standard output.
                           Arguments that are not options are also taken as outputs.
  -n, --num-bytes <count>  Block size in bytes. Provided once per input when zipping
                           and once per output when unzipping, in the same order.
  -u, --unzip              Unzip the input instead of zipping.
  -v, --verbose            Log every opened stream.
  -h, --help               Show this help message.

Examples:
  %s -i input1.dat -n 32 -i input2.dat -n 16 output.dat
    Zips 32-byte blocks from input1.dat with 16-byte blocks from input2.dat
    and writes the result to output.dat.

  %s -u -i input.dat -o output1.dat -n 32 -o output2.dat -n 16
    Unzips input.dat storing 32-byte blocks into output1.dat and 16-byte
    blocks into output2.dat.

Exit status is 0 when every stream ended on a block boundary, 1 when bytes
were left over, and 2 on usage or I/O errors.

Environment:
  HEXZIP_BUFFER_SIZE       Output buffer size in bytes (default 65536).
  HEXZIP_LOG_FORMAT        "text" (default) or "json".
`, program, Version, program, program, program, program)
}
