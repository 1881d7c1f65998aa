package buffer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// =============================================================================
// Buffer Tests
// =============================================================================

func TestBuffer_New(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr error
	}{
		{"valid", 4, 3, nil},
		{"zero width", 0, 3, ErrInvalidDimensions},
		{"zero height", 4, 0, ErrInvalidDimensions},
		{"negative", -1, -1, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New[float32](tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New(%d,%d) error = %v, want %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if b.Width() != tt.w || b.Height() != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", b.Width(), b.Height(), tt.w, tt.h)
			}
			if len(b.Data()) != tt.w*tt.h {
				t.Errorf("len(Data()) = %d, want %d", len(b.Data()), tt.w*tt.h)
			}
		})
	}
}

func TestBuffer_GetSetBounds(t *testing.T) {
	b, _ := New[uint8](8, 4)

	tests := []struct {
		name   string
		x, y   int
		wantOK bool
	}{
		{"origin", 0, 0, true},
		{"last cell", 7, 3, true},
		{"negative x", -1, 0, false},
		{"negative y", 0, -1, false},
		{"x at width", 8, 0, false},
		{"y at height", 0, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ok := b.Set(tt.x, tt.y, 7); ok != tt.wantOK {
				t.Errorf("Set(%d,%d) = %v, want %v", tt.x, tt.y, ok, tt.wantOK)
			}
			v, ok := b.Get(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Errorf("Get(%d,%d) ok = %v, want %v", tt.x, tt.y, ok, tt.wantOK)
			}
			if ok && v != 7 {
				t.Errorf("Get(%d,%d) = %d, want 7", tt.x, tt.y, v)
			}
		})
	}
}

func TestBuffer_Clear(t *testing.T) {
	b, _ := New[float32](5, 3)
	b.Clear(1)
	for i, v := range b.Data() {
		if v != 1 {
			t.Fatalf("Data()[%d] = %v, want 1", i, v)
		}
	}
}

func TestBuffer_ClearRect(t *testing.T) {
	b, _ := New[uint8](6, 6)

	if !b.ClearRect(4, 4, 10, 10, 9) {
		t.Fatal("ClearRect overlapping corner returned false")
	}
	for y := range 6 {
		for x := range 6 {
			v, _ := b.Get(x, y)
			want := uint8(0)
			if x >= 4 && y >= 4 {
				want = 9
			}
			if v != want {
				t.Errorf("(%d,%d) = %d, want %d", x, y, v, want)
			}
		}
	}

	if b.ClearRect(6, 0, 2, 2, 1) {
		t.Error("ClearRect outside buffer returned true")
	}
}

// =============================================================================
// Format Tests
// =============================================================================

func TestFormat_PackUnpack(t *testing.T) {
	c := mgl32.Vec4{1, 0.5, 0, 1}

	for _, f := range []Format{FormatRGBA8, FormatBGRA8} {
		t.Run(f.String(), func(t *testing.T) {
			got := f.Unpack(f.Pack(c))
			for i := range 4 {
				if d := got[i] - c[i]; d > 1.0/255 || d < -1.0/255 {
					t.Errorf("component %d = %v, want %v", i, got[i], c[i])
				}
			}
			r, g, b, a := f.RGBA8(f.Pack(c))
			if r != 255 || g != 128 || b != 0 || a != 255 {
				t.Errorf("RGBA8 = (%d,%d,%d,%d), want (255,128,0,255)", r, g, b, a)
			}
		})
	}
}

func TestFormat_ByteOrder(t *testing.T) {
	red := mgl32.Vec4{1, 0, 0, 1}
	if got := FormatRGBA8.Pack(red); got != 0xFF0000FF {
		t.Errorf("RGBA8 red = %#08x, want 0xff0000ff", got)
	}
	if got := FormatBGRA8.Pack(red); got != 0xFFFF0000 {
		t.Errorf("BGRA8 red = %#08x, want 0xffff0000", got)
	}
}

func TestFormat_Gray(t *testing.T) {
	got := FormatGray8.Unpack(FormatGray8.Pack(mgl32.Vec4{1, 1, 1, 0.2}))
	if got != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("Gray8 white = %v, want opaque white", got)
	}
	if !FormatGray8.Info().IsGrayscale {
		t.Error("Gray8 should report grayscale")
	}
}

func TestFormat_Clamp(t *testing.T) {
	p := FormatRGBA8.Pack(mgl32.Vec4{2, -1, 0.5, 1})
	r, g, _, _ := FormatRGBA8.RGBA8(p)
	if r != 255 || g != 0 {
		t.Errorf("clamped = (%d,%d), want (255,0)", r, g)
	}
}

func TestCopyRGBA(t *testing.T) {
	b, _ := New[uint32](2, 1)
	b.Set(1, 0, FormatBGRA8.Pack(mgl32.Vec4{0, 0, 1, 1}))

	dst := make([]byte, 8)
	if !CopyRGBA(dst, b, FormatBGRA8) {
		t.Fatal("CopyRGBA returned false")
	}
	if dst[4] != 0 || dst[6] != 255 || dst[7] != 255 {
		t.Errorf("pixel 1 = %v, want blue", dst[4:8])
	}
	if CopyRGBA(make([]byte, 4), b, FormatRGBA8) {
		t.Error("CopyRGBA into short slice returned true")
	}
}
