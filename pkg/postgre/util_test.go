package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUUID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "valid", in: "3f1c2a9e-4b7d-4c1a-9e2f-5a6b7c8d9e0f"},
		{name: "generated", in: NewUUID()},
		{name: "empty", in: "", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
		{name: "not a uuid", in: "org-1", wantErr: true},
		{name: "nil uuid", in: "00000000-0000-0000-0000-000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsUUID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUUID)
				return
			}
			assert.NoError(t, err)
		})
	}
}
