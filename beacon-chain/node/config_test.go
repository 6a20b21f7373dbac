package node

import (
	"reflect"
	"strings"
	"testing"

	types "github.com/prysmaticlabs/eth2-types"
)

func TestConvertWspInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		bRoot   []byte
		epoch   types.Epoch
		wantErr bool
		errStr  string
	}{
		{
			name:    "no column in string",
			input:   "0x111111;123",
			wantErr: true,
			errStr:  "did not contain column",
		},
		{
			name:    "too many columns in string",
			input:   "0x010203:123:456",
			wantErr: true,
			errStr:  "should be in `block_root:epoch_number` format",
		},
		{
			name:    "incorrect block root length",
			input:   "0x010203:987",
			wantErr: true,
			errStr:  "block root is not length of 32",
		},
		{
			name:  "correct input",
			input: "0xFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF:123456789",
			bRoot: []byte{
				255, 255, 255, 255, 255, 255, 255, 255,
				255, 255, 255, 255, 255, 255, 255, 255,
				255, 255, 255, 255, 255, 255, 255, 255,
				255, 255, 255, 255, 255, 255, 255, 255,
			},
			epoch: 123456789,
		},
		{
			name:  "correct input without 0x prefix",
			input: "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF:123456789",
			bRoot: []byte{
				255, 255, 255, 255, 255, 255, 255, 255,
				255, 255, 255, 255, 255, 255, 255, 255,
				255, 255, 255, 255, 255, 255, 255, 255,
				255, 255, 255, 255, 255, 255, 255, 255,
			},
			epoch: 123456789,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bRoot, epoch, err := convertWspInput(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("convertWspInput() expected error containing %q, got nil", tt.errStr)
				}
				if !strings.Contains(err.Error(), tt.errStr) {
					t.Fatalf("convertWspInput() error = %q, want it to contain %q", err.Error(), tt.errStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("convertWspInput() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(bRoot, tt.bRoot) {
				t.Errorf("convertWspInput() block root = %v, want %v", bRoot, tt.bRoot)
			}
			if epoch != tt.epoch {
				t.Errorf("convertWspInput() epoch = %v, want %v", epoch, tt.epoch)
			}
		})
	}
}
