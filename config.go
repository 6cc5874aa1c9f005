package arena

import (
	"flag"
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/arena/internal/conv"
	"github.com/hupe1980/arena/internal/vmem"
)

const (
	// DefaultCapacity is the capacity used when Config.Capacity is zero.
	DefaultCapacity = Size(64 << 20)
	// DefaultAlign is the alignment used when Config.Align is zero.
	DefaultAlign = uint32(unsafe.Sizeof(uintptr(0)))
	// blockDivisor derives the default block size from the capacity.
	blockDivisor = 8
)

// Config describes an arena. The zero value is valid and selects defaults
// for every field.
type Config struct {
	// Capacity is the maximum number of bytes the arena may grow to.
	// It is rounded up to the page granularity. 0 selects DefaultCapacity.
	Capacity Size `yaml:"capacity"`

	// BlockSize is the granularity at which backing storage is added and
	// removed. It is rounded up to the page granularity and clamped to the
	// capacity. 0 selects Capacity/8.
	BlockSize Size `yaml:"block_size"`

	// Align is the alignment of every allocation. It must be a power of two
	// no larger than the page granularity. 0 selects pointer size.
	Align uint32 `yaml:"align"`

	// PageSize overrides the granularity used for rounding. It must be a
	// power of two. 0 selects the OS page size. For the reserve backend the
	// effective granularity is never smaller than the OS page size.
	PageSize uint32 `yaml:"page_size"`

	// ErrorCallback is invoked synchronously on every failure. nil disables it.
	ErrorCallback ErrorCallback `yaml:"-"`
}

// RegisterFlags registers the arena flags with the given flag set.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("arena.", f)
}

// RegisterFlagsWithPrefix registers the arena flags with the given prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	cfg.Capacity = DefaultCapacity
	f.Var(&cfg.Capacity, prefix+"capacity", "Maximum size the arena may grow to (e.g. 64MiB).")
	f.Var(&cfg.BlockSize, prefix+"block-size", "Granularity at which backing storage is added and removed. 0 uses capacity/8.")
	f.Func(prefix+"align", "Alignment of every allocation, a power of two. 0 uses pointer size.", func(s string) error {
		n, err := parseUint32(s)
		cfg.Align = n
		return err
	})
	f.Func(prefix+"page-size", "Rounding granularity, a power of two. 0 uses the OS page size.", func(s string) error {
		n, err := parseUint32(s)
		cfg.PageSize = n
		return err
	})
}

// ParseConfig decodes a YAML document into a Config and validates it.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("arena: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration without touching any memory.
func (cfg *Config) Validate() error {
	if cfg.Align != 0 && !conv.IsPow2(uint64(cfg.Align)) {
		return fmt.Errorf("alignment %d is not a power of two", cfg.Align)
	}
	if cfg.PageSize != 0 && !conv.IsPow2(uint64(cfg.PageSize)) {
		return fmt.Errorf("page size %d is not a power of two", cfg.PageSize)
	}
	if uint64(cfg.Capacity) > math.MaxInt/2 {
		return fmt.Errorf("capacity %s exceeds addressable range", cfg.Capacity)
	}
	if _, err := conv.Uint64ToUint32(uint64(cfg.BlockSize)); err != nil {
		return fmt.Errorf("block size %s: %w", cfg.BlockSize, err)
	}
	return nil
}

// layout is a Config with every default applied and every size rounded.
type layout struct {
	capacity  uint64
	blockSize uint64
	align     uint64
	page      uint64
}

// resolve computes the layout for the given minimum granularity (the OS
// page size for the reserve backend, 1 for the chain backend).
func (cfg *Config) resolve(minPage uint64) (layout, error) {
	if err := cfg.Validate(); err != nil {
		return layout{}, err
	}

	page := uint64(cfg.PageSize)
	if page == 0 {
		page = uint64(vmem.PageSize())
	}
	page = max(page, minPage)

	capacity := uint64(cfg.Capacity)
	if capacity == 0 {
		capacity = uint64(DefaultCapacity)
	}
	capacity = conv.AlignUp(capacity, page)

	block := uint64(cfg.BlockSize)
	if block == 0 {
		block = capacity / blockDivisor
	}
	block = min(conv.AlignUp(block, page), capacity)
	// Keep the block size representable in the 32-bit header field.
	if block > math.MaxUint32 {
		block = conv.AlignDown(math.MaxUint32, page)
	}

	align := uint64(cfg.Align)
	if align == 0 {
		align = uint64(DefaultAlign)
	}
	if align > page {
		return layout{}, fmt.Errorf("alignment %d exceeds page granularity %d", align, page)
	}

	return layout{
		capacity:  capacity,
		blockSize: block,
		align:     align,
		page:      page,
	}, nil
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
