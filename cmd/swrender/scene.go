package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/softgpu"
	"github.com/gogpu/softgpu/gstate"
)

// textureBase is the address the scene texture is mapped at.
const textureBase = 0x04000000

// Number of values of each enumeration that names are looked up in.
const (
	compareFuncs   = int(gputypes.CompareFunctionAlways) + 1
	stencilOps     = int(gputypes.StencilOperationDecrementWrap) + 1
	filterModes    = int(gputypes.FilterModeLinear) + 1
	addressModes   = int(gputypes.AddressModeMirrorRepeat) + 1
	bufferFormats  = int(gstate.Format8888) + 1
	textureFormats = int(gstate.TexDXT5) + 1
	clutFormats    = int(gstate.Clut8888) + 1
	colorTestFuncs = int(gstate.ColorTestNotEqual) + 1
	blendFactors   = int(gstate.FactorFixed) + 1
	blendEquations = int(gstate.BlendAbsDiff) + 1
	logicOps       = int(gstate.LogicSet) + 1
	texFuncs       = int(gstate.TexFuncAdd) + 1
	levelModes     = int(gstate.LevelSlope) + 1
	filterOverride = int(gstate.FilterForceNearest) + 1
)

// Scene is a framebuffer description plus a list of draws.
type Scene struct {
	Width   int          `yaml:"width"`
	Height  int          `yaml:"height"`
	Format  string       `yaml:"format"`
	State   StateConfig  `yaml:"state"`
	Texture *TextureData `yaml:"texture"`
	Draws   []Draw       `yaml:"draws"`

	// dir resolves relative texture files.
	dir string
}

// Draw is one primitive list. State holds overrides that are applied on
// top of the scene state for this draw only.
type Draw struct {
	Primitive string         `yaml:"primitive"`
	State     yaml.Node      `yaml:"state"`
	Vertices  []VertexConfig `yaml:"vertices"`
}

// VertexConfig places a vertex in drawing coordinates. X and Y are pixels
// and may be fractional.
type VertexConfig struct {
	X         float64   `yaml:"x"`
	Y         float64   `yaml:"y"`
	Z         uint16    `yaml:"z"`
	Color     uint32    `yaml:"color"`
	Secondary uint32    `yaml:"secondary"`
	UV        []float32 `yaml:"uv"`
	Fog       float32   `yaml:"fog"`
	W         float32   `yaml:"w"`
}

// StateConfig is the YAML form of gstate.State. Enumerations are given by
// name, colors as packed 0xAABBGGRR integers.
type StateConfig struct {
	Offset  []int `yaml:"offset"`
	Scissor []int `yaml:"scissor"`
	Region  []int `yaml:"region"`

	ClearMode    bool `yaml:"clear_mode"`
	ClearColor   bool `yaml:"clear_color"`
	ClearStencil bool `yaml:"clear_stencil"`
	ClearDepth   bool `yaml:"clear_depth"`

	Through   bool `yaml:"through"`
	Gouraud   bool `yaml:"gouraud"`
	AntiAlias bool `yaml:"antialias"`

	Depth     DepthConfig     `yaml:"depth"`
	AlphaTest AlphaTestConfig `yaml:"alpha_test"`
	ColorTest ColorTestConfig `yaml:"color_test"`
	Stencil   StencilConfig   `yaml:"stencil"`
	Blend     BlendConfig     `yaml:"blend"`
	Fog       FogConfig       `yaml:"fog"`

	// Dither enables dithering with a 4x4 matrix given row by row.
	Dither []int8 `yaml:"dither"`

	// LogicOp enables the logic op when set.
	LogicOp string `yaml:"logic_op"`

	ColorMask uint32 `yaml:"color_mask"`
	AlphaMask uint8  `yaml:"alpha_mask"`

	Texturing TexturingConfig `yaml:"texturing"`
}

type DepthConfig struct {
	Test  bool   `yaml:"test"`
	Func  string `yaml:"func"`
	Write bool   `yaml:"write"`
	MinZ  uint16 `yaml:"min_z"`
	MaxZ  uint16 `yaml:"max_z"`
}

type AlphaTestConfig struct {
	Enable bool   `yaml:"enable"`
	Func   string `yaml:"func"`
	Ref    uint8  `yaml:"ref"`
	Mask   uint8  `yaml:"mask"`
}

type ColorTestConfig struct {
	Enable bool   `yaml:"enable"`
	Func   string `yaml:"func"`
	Ref    uint32 `yaml:"ref"`
	Mask   uint32 `yaml:"mask"`
}

type StencilConfig struct {
	Test      bool   `yaml:"test"`
	Func      string `yaml:"func"`
	Ref       uint8  `yaml:"ref"`
	Mask      uint8  `yaml:"mask"`
	Fail      string `yaml:"fail"`
	DepthFail string `yaml:"depth_fail"`
	DepthPass string `yaml:"depth_pass"`
}

type BlendConfig struct {
	Enable bool   `yaml:"enable"`
	Src    string `yaml:"src"`
	Dst    string `yaml:"dst"`
	Eq     string `yaml:"eq"`
	FixA   uint32 `yaml:"fix_a"`
	FixB   uint32 `yaml:"fix_b"`
}

type FogConfig struct {
	Enable bool   `yaml:"enable"`
	Color  uint32 `yaml:"color"`
}

// TexturingConfig controls how the scene texture is sampled.
type TexturingConfig struct {
	Enable    bool    `yaml:"enable"`
	Func      string  `yaml:"func"`
	Alpha     bool    `yaml:"alpha"`
	Doubling  bool    `yaml:"doubling"`
	EnvColor  uint32  `yaml:"env_color"`
	MinFilter string  `yaml:"min_filter"`
	MagFilter string  `yaml:"mag_filter"`
	AddressU  string  `yaml:"address_u"`
	AddressV  string  `yaml:"address_v"`
	LevelMode string  `yaml:"level_mode"`
	LodSlope  float32 `yaml:"lod_slope"`
}

// TextureData is the single texture level mapped into memory. Texels come
// either from Words, raw little-endian memory words, or from File.
type TextureData struct {
	Format     string   `yaml:"format"`
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Swizzled   bool     `yaml:"swizzled"`
	Words      []uint32 `yaml:"words"`
	File       string   `yaml:"file"`
	CLUT       []uint32 `yaml:"clut"`
	ClutFormat string   `yaml:"clut_format"`
}

// defaultStateConfig passes every test and writes every bit.
func defaultStateConfig() StateConfig {
	return StateConfig{
		Depth:     DepthConfig{Func: "Always", MaxZ: 0xFFFF},
		AlphaTest: AlphaTestConfig{Func: "Always", Mask: 0xFF},
		ColorTest: ColorTestConfig{Func: "Always", Mask: 0xFFFFFF},
		Stencil: StencilConfig{
			Func: "Always", Mask: 0xFF,
			Fail: "Keep", DepthFail: "Keep", DepthPass: "Keep",
		},
		Blend: BlendConfig{Src: "SrcAlpha", Dst: "InvSrcAlpha", Eq: "Add"},
		Texturing: TexturingConfig{
			Func: "Modulate", Alpha: true,
			MinFilter: "Nearest", MagFilter: "Nearest",
			AddressU: "Repeat", AddressV: "Repeat",
			LevelMode: "Auto",
		},
	}
}

// LoadScene reads a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	sc, err := ParseScene(data)
	if err != nil {
		return nil, err
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

// ParseScene decodes a scene and fills in defaults.
func ParseScene(data []byte) (*Scene, error) {
	sc := &Scene{Format: "8888", State: defaultStateConfig()}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	if sc.Width <= 0 || sc.Height <= 0 {
		return nil, fmt.Errorf("scene size %dx%d", sc.Width, sc.Height)
	}
	if len(sc.Draws) == 0 {
		return nil, fmt.Errorf("scene has no draws")
	}
	return sc, nil
}

// NewState allocates the buffers and maps the texture. The pipeline
// configuration is filled in per draw.
func (sc *Scene) NewState() (*gstate.State, error) {
	f, err := parseEnum[gstate.BufferFormat]("buffer format", sc.Format, bufferFormats)
	if err != nil {
		return nil, err
	}
	st := &gstate.State{
		FramebufFormat: f,
		Framebuf:       gstate.NewSurface(sc.Width, sc.Height, f.BytesPerPixel()),
		Depthbuf:       gstate.NewSurface(sc.Width, sc.Height, 2),
	}
	if sc.Texture != nil {
		if err := sc.Texture.load(st, sc.dir); err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
	}
	return st, nil
}

// Render runs every draw of the scene and returns the final state.
func (sc *Scene) Render(r *softgpu.Renderer) (*gstate.State, error) {
	st, err := sc.NewState()
	if err != nil {
		return nil, err
	}
	for i := range sc.Draws {
		d := &sc.Draws[i]
		cfg := sc.State
		if !d.State.IsZero() {
			if err := d.State.Decode(&cfg); err != nil {
				return nil, fmt.Errorf("draw %d: %w", i, err)
			}
		}
		if err := cfg.apply(st, sc.Width, sc.Height); err != nil {
			return nil, fmt.Errorf("draw %d: %w", i, err)
		}
		p, err := softgpu.ParsePrimitive(d.Primitive)
		if err != nil {
			return nil, fmt.Errorf("draw %d: %w", i, err)
		}
		if err := r.Draw(st, p, d.vertices(st)); err != nil {
			return nil, fmt.Errorf("draw %d: %w", i, err)
		}
	}
	return st, nil
}

func (d *Draw) vertices(st *gstate.State) []gstate.Vertex {
	verts := make([]gstate.Vertex, len(d.Vertices))
	x, y := st.DrawingToScreen(0, 0)
	for i, v := range d.Vertices {
		verts[i] = gstate.Vertex{
			X:        x + int(math.Round(v.X*16)),
			Y:        y + int(math.Round(v.Y*16)),
			Z:        v.Z,
			Color0:   gstate.Color4(v.Color),
			FogDepth: v.Fog,
			ClipW:    v.W,
		}
		c1 := gstate.Color4(v.Secondary)
		copy(verts[i].Color1[:], c1[:3])
		if len(v.UV) >= 2 {
			verts[i].TexCoord[0], verts[i].TexCoord[1] = v.UV[0], v.UV[1]
		}
		if verts[i].ClipW == 0 {
			verts[i].ClipW = 1
		}
	}
	return verts
}

// apply writes the configuration into st. Buffers and texture memory are
// left alone. The first unknown name is returned.
func (c *StateConfig) apply(st *gstate.State, w, h int) error {
	var err error

	st.OffsetX, st.OffsetY = 0, 0
	if len(c.Offset) == 2 {
		st.OffsetX, st.OffsetY = c.Offset[0], c.Offset[1]
	}
	st.ScissorX1, st.ScissorY1, st.ScissorX2, st.ScissorY2 = rect(c.Scissor, w, h)
	st.RegionX1, st.RegionY1, st.RegionX2, st.RegionY2 = rect(c.Region, w, h)

	st.ClearMode = c.ClearMode
	st.ClearColor = c.ClearColor
	st.ClearStencil = c.ClearStencil
	st.ClearDepth = c.ClearDepth
	st.ThroughMode = c.Through
	st.ShadeGouraud = c.Gouraud
	st.AntiAlias = c.AntiAlias

	st.DepthTestEnable = c.Depth.Test
	st.DepthWrite = c.Depth.Write
	st.MinZ, st.MaxZ = c.Depth.MinZ, c.Depth.MaxZ
	parseInto(&err, &st.DepthFunc, "depth func", c.Depth.Func, compareFuncs)

	st.AlphaTestEnable = c.AlphaTest.Enable
	st.AlphaTestRef, st.AlphaTestMask = c.AlphaTest.Ref, c.AlphaTest.Mask
	parseInto(&err, &st.AlphaTestFunc, "alpha test func", c.AlphaTest.Func, compareFuncs)

	st.ColorTestEnable = c.ColorTest.Enable
	st.ColorTestRef, st.ColorTestMask = c.ColorTest.Ref, c.ColorTest.Mask
	parseInto(&err, &st.ColorTestFunc, "color test func", c.ColorTest.Func, colorTestFuncs)

	st.StencilTestEnable = c.Stencil.Test
	st.StencilRef, st.StencilMask = c.Stencil.Ref, c.Stencil.Mask
	parseInto(&err, &st.StencilFunc, "stencil func", c.Stencil.Func, compareFuncs)
	parseInto(&err, &st.StencilFail, "stencil fail op", c.Stencil.Fail, stencilOps)
	parseInto(&err, &st.DepthFail, "depth fail op", c.Stencil.DepthFail, stencilOps)
	parseInto(&err, &st.DepthPass, "depth pass op", c.Stencil.DepthPass, stencilOps)

	st.BlendEnable = c.Blend.Enable
	st.FixA, st.FixB = c.Blend.FixA, c.Blend.FixB
	parseInto(&err, &st.BlendSrc, "blend factor", c.Blend.Src, blendFactors)
	parseInto(&err, &st.BlendDst, "blend factor", c.Blend.Dst, blendFactors)
	parseInto(&err, &st.BlendEq, "blend equation", c.Blend.Eq, blendEquations)

	st.FogEnable, st.FogColor = c.Fog.Enable, c.Fog.Color

	st.DitherEnable = len(c.Dither) > 0
	st.DitherMatrix = [16]int8{}
	if st.DitherEnable && len(c.Dither) != 16 && err == nil {
		err = fmt.Errorf("dither matrix has %d entries, want 16", len(c.Dither))
	}
	copy(st.DitherMatrix[:], c.Dither)

	st.LogicOpEnable = c.LogicOp != ""
	st.LogicOp = gstate.LogicCopy
	if st.LogicOpEnable {
		parseInto(&err, &st.LogicOp, "logic op", c.LogicOp, logicOps)
	}

	st.ColorMask, st.AlphaMask = c.ColorMask, c.AlphaMask

	t := &c.Texturing
	st.TextureEnable = t.Enable && st.Memory != nil
	st.TextureAlpha, st.ColorDoubling, st.EnvColor = t.Alpha, t.Doubling, t.EnvColor
	st.LodSlope = t.LodSlope
	parseInto(&err, &st.TexFunc, "texture func", t.Func, texFuncs)
	parseInto(&err, &st.MinFilter, "filter", t.MinFilter, filterModes)
	parseInto(&err, &st.MagFilter, "filter", t.MagFilter, filterModes)
	parseInto(&err, &st.AddressU, "address mode", t.AddressU, addressModes)
	parseInto(&err, &st.AddressV, "address mode", t.AddressV, addressModes)
	parseInto(&err, &st.LevelMode, "level mode", t.LevelMode, levelModes)

	return err
}

// rect reads an inclusive x1, y1, x2, y2 rectangle, defaulting to the
// whole buffer.
func rect(r []int, w, h int) (x1, y1, x2, y2 int) {
	if len(r) != 4 {
		return 0, 0, w - 1, h - 1
	}
	return r[0], r[1], r[2], r[3]
}

func (t *TextureData) load(st *gstate.State, dir string) error {
	f, err := parseEnum[gstate.TextureFormat]("texture format", t.Format, textureFormats)
	if err != nil {
		return err
	}
	wlog, err := log2(t.Width)
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	hlog, err := log2(t.Height)
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}

	var data []byte
	switch {
	case t.File != "":
		path := t.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if data, err = os.ReadFile(path); err != nil { //nolint:gosec // path is user-provided intentionally
			return err
		}
	default:
		data = make([]byte, len(t.Words)*4)
		for i, w := range t.Words {
			binary.LittleEndian.PutUint32(data[i*4:], w)
		}
	}

	st.TextureFormat = f
	st.Swizzled = t.Swizzled
	st.Memory = &gstate.Flat{Base: textureBase, Data: data}
	st.Textures[0] = gstate.TextureLevel{
		Addr:       textureBase,
		BufWidth:   t.Width,
		WidthLog2:  wlog,
		HeightLog2: hlog,
	}

	if len(t.CLUT) > 0 {
		cf, err := parseEnum[gstate.ClutFormat]("clut format", t.ClutFormat, clutFormats)
		if err != nil {
			return err
		}
		size := cf.BytesPerEntry()
		clut := make([]byte, len(t.CLUT)*size)
		for i, c := range t.CLUT {
			if size == 4 {
				binary.LittleEndian.PutUint32(clut[i*4:], c)
			} else {
				binary.LittleEndian.PutUint16(clut[i*2:], uint16(c)) // #nosec G115 -- 16-bit entries
			}
		}
		st.CLUT, st.ClutFormat = clut, cf
		st.ClutMask = 0xFF
	}
	return nil
}

func log2(n int) (uint8, error) {
	if n <= 0 || n > 512 || n&(n-1) != 0 {
		return 0, fmt.Errorf("%d is not a power of two up to 512", n)
	}
	return uint8(bits.TrailingZeros(uint(n))), nil // #nosec G115 -- at most 9
}

// enum is a named integer whose String method names its values.
type enum interface {
	~uint8 | ~uint32
	String() string
}

// parseEnum finds the value among the first count values whose String
// matches s, ignoring case.
func parseEnum[T enum](kind, s string, count int) (T, error) {
	for i := range count {
		v := T(i)
		if strings.EqualFold(v.String(), s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

// parseInto stores the parsed value in dst. Once *err is set later calls
// do nothing.
func parseInto[T enum](err *error, dst *T, kind, s string, count int) {
	if *err != nil {
		return
	}
	*dst, *err = parseEnum[T](kind, s, count)
}
