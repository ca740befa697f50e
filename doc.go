// Package softgpu is a software rasterizer for a fixed-function GPU
// pipeline.
//
// # Overview
//
// softgpu draws transformed vertices into 16 or 32-bit color buffers with
// a 16-bit depth buffer. Every draw reads its configuration from a
// [gstate.State]: framebuffer format, scissor, depth and stencil tests,
// blending, fog, dithering, logic ops, write masks and texturing.
//
// Per-pixel work is specialized. The state is reduced to a fingerprint
// and a pixel function and texture sampler are compiled for it once, then
// reused by every later draw with the same configuration. Large triangles
// and clears are split across a pool of worker goroutines.
//
// # Quick Start
//
//	r := softgpu.New()
//	defer r.Close()
//
//	st := &gstate.State{
//	    FramebufFormat: gstate.Format8888,
//	    Framebuf:       gstate.NewSurface(480, 272, 4),
//	    Depthbuf:       gstate.NewSurface(480, 272, 2),
//	    ScissorX2:      479,
//	    ScissorY2:      271,
//	    ThroughMode:    true,
//	}
//
//	verts := []gstate.Vertex{
//	    {X: 0, Y: 0, Color0: gstate.Color4(0xFF0000FF)},
//	    {X: 0, Y: 100 << 4, Color0: gstate.Color4(0xFF00FF00)},
//	    {X: 100 << 4, Y: 0, Color0: gstate.Color4(0xFFFF0000)},
//	}
//	if err := r.Draw(st, softgpu.Triangles, verts); err != nil {
//	    log.Fatal(err)
//	}
//
//	img, _ := r.FramebufferImage(st)
//	_ = softgpu.SaveBMP("frame.bmp", img)
//
// # Coordinates
//
// Vertex positions are screen coordinates in 12.4 fixed point. The state's
// offset maps them to buffer pixels. In through mode texture coordinates
// are texel units, otherwise they are normalized and perspective corrected
// by the vertex's clip w.
//
// # Debugging
//
// [Renderer.FramebufferImage], [Renderer.DepthImage],
// [Renderer.StencilImage] and [Renderer.TextureImage] copy buffers out as
// standard images. [Renderer.Stats] reports how often compiled functions
// were reused.
//
// # Logging
//
// softgpu is silent by default. See [SetLogger].
package softgpu
