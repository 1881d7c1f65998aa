package soft3d

import "github.com/gogpu/soft3d/internal/arena"

// TextureHandle refers to a Texture stored in Resources.
// The zero value is unbound.
type TextureHandle struct{ h arena.Handle }

// CubemapHandle refers to a Cubemap stored in Resources.
type CubemapHandle struct{ h arena.Handle }

// MeshHandle refers to a Mesh stored in Resources.
type MeshHandle struct{ h arena.Handle }

// IsNil reports whether the handle was never bound.
func (h TextureHandle) IsNil() bool { return h.h.IsNil() }

// IsNil reports whether the handle was never bound.
func (h CubemapHandle) IsNil() bool { return h.h.IsNil() }

// IsNil reports whether the handle was never bound.
func (h MeshHandle) IsNil() bool { return h.h.IsNil() }

// Resources owns the textures, cubemaps and meshes referenced by materials
// and draws. Handles are generation-checked: after RemoveTexture, every
// handle to that texture resolves as missing, and shaders sampling it get
// FallbackColor.
//
// Resources is safe for concurrent use; tile workers resolve handles while
// the scene layer may add resources for the next frame.
type Resources struct {
	textures *arena.Arena[*Texture]
	cubemaps *arena.Arena[*Cubemap]
	meshes   *arena.Arena[*Mesh]
}

// NewResources creates an empty resource set.
func NewResources() *Resources {
	return &Resources{
		textures: arena.New[*Texture](),
		cubemaps: arena.New[*Cubemap](),
		meshes:   arena.New[*Mesh](),
	}
}

// AddTexture stores t and returns its handle. A nil texture yields the
// unbound handle.
func (r *Resources) AddTexture(t *Texture) TextureHandle {
	if t == nil {
		return TextureHandle{}
	}
	return TextureHandle{r.textures.Add(t)}
}

// Texture resolves h. Returns nil for unbound or stale handles.
func (r *Resources) Texture(h TextureHandle) *Texture {
	t, _ := r.textures.Get(h.h)
	return t
}

// RemoveTexture releases h. Returns false if h was already stale.
func (r *Resources) RemoveTexture(h TextureHandle) bool {
	return r.textures.Remove(h.h)
}

// AddCubemap stores c and returns its handle.
func (r *Resources) AddCubemap(c *Cubemap) CubemapHandle {
	if c == nil {
		return CubemapHandle{}
	}
	return CubemapHandle{r.cubemaps.Add(c)}
}

// Cubemap resolves h. Returns nil for unbound or stale handles.
func (r *Resources) Cubemap(h CubemapHandle) *Cubemap {
	c, _ := r.cubemaps.Get(h.h)
	return c
}

// RemoveCubemap releases h.
func (r *Resources) RemoveCubemap(h CubemapHandle) bool {
	return r.cubemaps.Remove(h.h)
}

// AddMesh stores m and returns its handle.
func (r *Resources) AddMesh(m *Mesh) MeshHandle {
	if m == nil {
		return MeshHandle{}
	}
	return MeshHandle{r.meshes.Add(m)}
}

// Mesh resolves h. Returns nil for unbound or stale handles.
func (r *Resources) Mesh(h MeshHandle) *Mesh {
	m, _ := r.meshes.Get(h.h)
	return m
}

// RemoveMesh releases h.
func (r *Resources) RemoveMesh(h MeshHandle) bool {
	return r.meshes.Remove(h.h)
}

// Counts returns the number of live textures, cubemaps and meshes.
func (r *Resources) Counts() (textures, cubemaps, meshes int) {
	return r.textures.Len(), r.cubemaps.Len(), r.meshes.Len()
}

// Clear releases every resource and invalidates all handles.
func (r *Resources) Clear() {
	r.textures.Clear()
	r.cubemaps.Clear()
	r.meshes.Clear()
}
