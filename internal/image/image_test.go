package image

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestWindow(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	img := New(data, 0x400000)

	tests := []struct {
		name    string
		addr    uint32
		size    int
		want    []byte
		wantErr bool
	}{
		{
			name: "window at image start",
			addr: 0x400000,
			size: 4,
			want: []byte{0x01, 0x02, 0x03, 0x04},
		},
		{
			name: "window ending at image end",
			addr: 0x400004,
			size: 4,
			want: []byte{0x05, 0x06, 0x07, 0x08},
		},
		{
			name:    "address below image base",
			addr:    0x3FFFFF,
			size:    4,
			wantErr: true,
		},
		{
			name:    "window exceeding image end",
			addr:    0x400005,
			size:    4,
			wantErr: true,
		},
		{
			name:    "address far outside image",
			addr:    0xFFFFFFFF,
			size:    1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := img.Window(tt.addr, tt.size)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrOutOfRange))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccessors(t *testing.T) {
	img := New([]byte{0x01, 0x02}, 0x1000)

	assert.Equal(t, uint32(0x1000), img.Base())
	assert.Equal(t, 2, img.Len())
}
