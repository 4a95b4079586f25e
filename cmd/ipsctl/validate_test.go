package main

import (
	"testing"
)

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name        string
		patch       []byte
		targetSize  int // 0 = no --target
		wantErr     bool
		wantJSON    bool
		wantContain []string
	}{
		{
			name:        "valid",
			patch:       literalPatch,
			wantContain: []string{"✓ Header valid", "Result: ✓ VALID"},
		},
		{
			name:        "fits target",
			patch:       literalPatch,
			targetSize:  20,
			wantContain: []string{"All records fit", "VALID"},
		},
		{
			name:        "does not fit target",
			patch:       literalPatch,
			targetSize:  19,
			wantErr:     true,
			wantContain: []string{"out of bounds", "INVALID"},
		},
		{
			name:        "truncated",
			patch:       []byte("PATCH\x00\x00\x00\x00\x02\x01\x02"),
			wantErr:     true,
			wantContain: []string{"truncated record", "offset"},
		},
		{
			name:        "truncated json",
			patch:       []byte("PATCH\x00\x00\x00\x00\x02\x01\x02"),
			wantErr:     true,
			wantJSON:    true,
			wantContain: []string{`"valid": false`, `"field": "offset"`, `"position": 12`},
		},
		{
			name:        "missing header",
			patch:       []byte("PAT"),
			wantErr:     true,
			wantContain: []string{"missing header"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.wantJSON

			dir := t.TempDir()
			path := writeTestFile(t, dir, "p.ips", tt.patch)
			if tt.targetSize > 0 {
				validateTarget = writeTestFile(t, dir, "game.sfc", make([]byte, tt.targetSize))
			}

			output, err := captureOutput(t, func() error {
				return runValidate([]string{path})
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("runValidate() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
			}
			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}
