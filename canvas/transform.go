package canvas

import "image"

// Flip mirrors the canvas vertically.
func (c *Canvas) Flip() {
	row := c.width * bytesPerPixel
	tmp := make([]uint8, row)
	for top, bottom := 0, c.height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := c.pix[top*row : (top+1)*row]
		b := c.pix[bottom*row : (bottom+1)*row]
		copy(tmp, t)
		copy(t, b)
		copy(b, tmp)
	}
}

// Mirror mirrors the canvas horizontally.
func (c *Canvas) Mirror() {
	for y := 0; y < c.height; y++ {
		for l, r := 0, c.width-1; l < r; l, r = l+1, r-1 {
			pl, pr := c.get(l, y), c.get(r, y)
			c.set(l, y, pr)
			c.set(r, y, pl)
		}
	}
}

// Rotate turns the canvas 90 degrees clockwise. Width and height are
// swapped and the clip rectangle is reset to the new bounds.
func (c *Canvas) Rotate() {
	dst := make([]uint8, len(c.pix))
	w, h := c.height, c.width
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			// (x, y) moves to (h-1-y, x) in the rotated image
			nx, ny := c.height-1-y, x
			si := c.offset(x, y)
			di := (ny*w + nx) * bytesPerPixel
			copy(dst[di:di+bytesPerPixel], c.pix[si:si+bytesPerPixel])
		}
	}
	c.pix = dst
	c.width, c.height = w, h
	c.clip = image.Rect(0, 0, w, h)
}

// Resize reallocates the canvas. The overlapping top-left region is kept and
// any new area is transparent black. The clip rectangle is reset to the new
// bounds.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == c.width && height == c.height {
		return
	}

	dst := make([]uint8, width*height*bytesPerPixel)
	w := c.width
	if width < w {
		w = width
	}
	h := c.height
	if height < h {
		h = height
	}
	for y := 0; y < h; y++ {
		copy(dst[y*width*bytesPerPixel:], c.pix[c.offset(0, y):c.offset(w, y)])
	}

	c.pix = dst
	c.width, c.height = width, height
	c.clip = c.Bounds()
}
