package simhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		want    int
		wantErr bool
	}{
		{
			name: "完全相同",
			a:    "1111000011110000",
			b:    "1111000011110000",
			want: 0,
		},
		{
			name: "比特串相差5位",
			a:    "1111000011110000",
			b:    "0000100011110000",
			want: 5,
		},
		{
			name: "比特串全部相异",
			a:    "1111111111111111",
			b:    "0000000000000000",
			want: 16,
		},
		{
			name: "十六进制指纹",
			a:    "ffff0000",
			b:    "0fff0000",
			want: 4,
		},
		{
			name: "十六进制单字符多比特差",
			a:    "a0", // 1010 0000
			b:    "50", // 0101 0000
			want: 4,
		},
		{
			name:    "长度不一致",
			a:       "ffff",
			b:       "fff",
			wantErr: true,
		},
		{
			name:    "非法字符",
			a:       "zzzz",
			b:       "ffff",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	d1, err := Distance("abcd1234", "4321dcba")
	require.NoError(t, err)
	d2, err := Distance("4321dcba", "abcd1234")
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}
