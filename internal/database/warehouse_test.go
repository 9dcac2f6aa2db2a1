package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverName(t *testing.T) {
	tests := []struct {
		kind    string
		want    string
		wantErr bool
	}{
		{kind: "postgres", want: "postgres"},
		{kind: "postgresql", want: "postgres"},
		{kind: "mysql", want: "mysql"},
		{kind: "clickhouse", want: "clickhouse"},
		{kind: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := DriverName(tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
