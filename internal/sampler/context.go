package sampler

import (
	"errors"
	"fmt"

	"github.com/gogpu/softgpu/gstate"
	"github.com/gogpu/softgpu/internal/wide"
)

// ErrInvalidAddress is returned when a texture level does not resolve to
// mapped memory.
var ErrInvalidAddress = errors.New("sampler: invalid texture address")

// MaxLevels is the number of mip levels a texture can have.
const MaxLevels = 8

// Level is one resolved mip level.
type Level struct {
	Data       []byte
	Bufw       int
	WidthLog2  uint8
	HeightLog2 uint8
}

// Width returns the level width in texels.
func (l *Level) Width() int { return 1 << l.WidthLog2 }

// Height returns the level height in texels.
func (l *Level) Height() int { return 1 << l.HeightLog2 }

// Context carries the live inputs of the sampler functions for one draw.
// It is built before work is split across workers and is read-only
// afterwards.
type Context struct {
	ID       SamplerID
	Levels   [MaxLevels]Level
	MaxLevel int
	CLUT     []byte
	EnvColor wide.I32x4
}

// NewContext resolves the texture levels of st in its memory. Levels past
// the maximum level are left empty.
//
// A level that does not resolve is left empty too and samples as
// transparent black. The returned context is always usable; the error
// reports the first level that failed.
func NewContext(id SamplerID, st *gstate.State) (*Context, error) {
	ctx := &Context{
		ID:       id,
		MaxLevel: st.MaxTextureLevel(),
		CLUT:     st.CLUT,
		EnvColor: wide.UnpackRGBA(st.EnvColor & 0x00FFFFFF),
	}
	var firstErr error
	for i := 0; i <= ctx.MaxLevel; i++ {
		lvl, err := ResolveLevel(st, i)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		ctx.Levels[i] = lvl
	}
	return ctx, firstErr
}

// ResolveLevel resolves one texture level of st in its memory. On failure the
// level is returned with nil Data.
func ResolveLevel(st *gstate.State, i int) (Level, error) {
	t := st.Textures[i]
	lvl := Level{
		Bufw:       st.TextureBufw(i),
		WidthLog2:  t.WidthLog2,
		HeightLog2: t.HeightLog2,
	}
	size := levelBytes(st.TextureFormat, st.Swizzled, lvl.Bufw, lvl.Height())
	if st.Memory == nil || !st.Memory.IsValidRange(t.Addr, size) {
		return lvl, fmt.Errorf("%w: level %d at %#08x (%d bytes)", ErrInvalidAddress, i, t.Addr, size)
	}
	lvl.Data = st.Memory.Bytes(t.Addr, size)
	return lvl, nil
}

// levelBytes is the storage size of a level with the given row pitch.
// Swizzled rows are grouped in blocks of eight, so the height is rounded
// up to a full block row.
func levelBytes(f gstate.TextureFormat, swizzled bool, bufw, height int) uint32 {
	info := f.Info()
	if info.IsDXT {
		blocks := max(bufw/4, 1) * max((height+3)/4, 1)
		return uint32(blocks * info.BlockBytes) // #nosec G115 -- bounded by 8 levels of 512x512
	}
	rows := height
	if swizzled {
		rows = (height + 7) &^ 7
	}
	return uint32(bufw * rows * info.BitsPerTexel / 8) // #nosec G115 -- bounded by 8 levels of 512x512
}
