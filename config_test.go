package arena

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_RegisterFlags(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	assert.Equal(t, DefaultCapacity, cfg.Capacity)

	require.NoError(t, fs.Parse([]string{
		"-arena.capacity=16MiB",
		"-arena.block-size=1MiB",
		"-arena.align=16",
		"-arena.page-size=4096",
	}))

	assert.Equal(t, Size(MiB(16)), cfg.Capacity)
	assert.Equal(t, Size(MiB(1)), cfg.BlockSize)
	assert.Equal(t, uint32(16), cfg.Align)
	assert.Equal(t, uint32(4096), cfg.PageSize)
}

func TestConfig_RegisterFlagsWithPrefix(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlagsWithPrefix("scratch.", fs)

	require.NoError(t, fs.Parse([]string{"-scratch.capacity=1048576"}))
	assert.Equal(t, Size(MiB(1)), cfg.Capacity)
	assert.NotNil(t, fs.Lookup("scratch.block-size"))
	assert.Nil(t, fs.Lookup("arena.capacity"))
}

func TestConfig_RegisterFlagsInvalid(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{"bad size", "-arena.capacity=lots"},
		{"bad align", "-arena.align=-1"},
		{"align overflow", "-arena.align=4294967296"},
		{"bad page", "-arena.page-size=4k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(nilWriter{})
			cfg.RegisterFlags(fs)
			assert.Error(t, fs.Parse([]string{tt.arg}))
		})
	}
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
capacity: 32MiB
block_size: 512KiB
align: 32
`))
	require.NoError(t, err)

	assert.Equal(t, Size(MiB(32)), cfg.Capacity)
	assert.Equal(t, Size(KiB(512)), cfg.BlockSize)
	assert.Equal(t, uint32(32), cfg.Align)
	assert.Zero(t, cfg.PageSize)

	cfg, err = ParseConfig([]byte("capacity: 65536\n"))
	require.NoError(t, err)
	assert.Equal(t, Size(KiB(64)), cfg.Capacity)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("capacity: huge\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("align: 12\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("capacity: [1, 2]\n"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero", Config{}, false},
		{"explicit", Config{Capacity: Size(MiB(8)), BlockSize: Size(KiB(64)), Align: 64, PageSize: 4096}, false},
		{"align", Config{Align: 24}, true},
		{"page", Config{PageSize: 3000}, true},
		{"capacity", Config{Capacity: Size(1 << 63)}, true},
		{"block", Config{BlockSize: Size(1 << 32)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		minPage uint64
		want    layout
	}{
		{
			name:    "capacity rounded to page",
			cfg:     Config{Capacity: 5000, PageSize: 4096},
			minPage: 1,
			want:    layout{capacity: 8192, blockSize: 4096, align: uint64(DefaultAlign), page: 4096},
		},
		{
			name:    "block defaults to an eighth",
			cfg:     Config{Capacity: Size(MiB(8)), PageSize: 4096},
			minPage: 1,
			want:    layout{capacity: MiB(8), blockSize: MiB(1), align: uint64(DefaultAlign), page: 4096},
		},
		{
			name:    "block clamped to capacity",
			cfg:     Config{Capacity: Size(KiB(16)), BlockSize: Size(KiB(64)), PageSize: 4096},
			minPage: 1,
			want:    layout{capacity: KiB(16), blockSize: KiB(16), align: uint64(DefaultAlign), page: 4096},
		},
		{
			name:    "minimum page wins",
			cfg:     Config{Capacity: 100, PageSize: 16, Align: 16},
			minPage: 4096,
			want:    layout{capacity: 4096, blockSize: 4096, align: 16, page: 4096},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.resolve(tt.minPage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := (&Config{Align: 128, PageSize: 64}).resolve(1)
	assert.Error(t, err)
}
