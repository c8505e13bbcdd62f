package sheet

import (
	"image"
	"image/draw"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/bodgit/ikatile/canvas"
)

// Decode reads an image from r and cuts it into tiles of the given size,
// left to right, top to bottom.
func Decode(r io.Reader, tileWidth, tileHeight int) ([]*canvas.Canvas, error) {
	if tileWidth < 1 || tileHeight < 1 {
		return nil, errTileSize
	}

	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	if b.Dx()%tileWidth != 0 || b.Dy()%tileHeight != 0 {
		return nil, errWrongSize
	}

	columns, rows := b.Dx()/tileWidth, b.Dy()/tileHeight
	tiles := make([]*canvas.Canvas, 0, columns*rows)
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < columns; tx++ {
			c := canvas.New(tileWidth, tileHeight)
			sp := b.Min.Add(image.Pt(tx*tileWidth, ty*tileHeight))
			if nm, ok := m.(*image.NRGBA); ok {
				// Copy rows directly to avoid a premultiplied round trip
				pix := c.Pixels()
				for y := 0; y < tileHeight; y++ {
					i := nm.PixOffset(sp.X, sp.Y+y)
					copy(pix[y*tileWidth*4:(y+1)*tileWidth*4], nm.Pix[i:i+tileWidth*4])
				}
			} else {
				draw.Draw(c, c.Bounds(), m, sp, draw.Src)
			}
			tiles = append(tiles, c)
		}
	}
	return tiles, nil
}

func blank(c *canvas.Canvas) bool {
	pix := c.Pixels()
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			return false
		}
	}
	return true
}

// Trim drops fully transparent tiles from the end, such as the unused cells
// on the last row of a sheet.
func Trim(tiles []*canvas.Canvas) []*canvas.Canvas {
	n := len(tiles)
	for n > 0 && blank(tiles[n-1]) {
		n--
	}
	return tiles[:n]
}
