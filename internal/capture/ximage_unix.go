//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// xImageToRGBA converts a ZPixmap reply in BGR(A) byte order.
func xImageToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if reply == nil || len(reply.Data) == 0 {
		return nil, errors.New("window pixels: empty image data")
	}
	bpp := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bpp = int(format.BitsPerPixel) / 8
			break
		}
	}
	if bpp < 3 {
		return nil, fmt.Errorf("unsupported window depth %d", reply.Depth)
	}
	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) || stride < width*bpp {
		return nil, errors.New("window pixels: unexpected stride")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			src := row[x*bpp:]
			d := dst[x*4 : x*4+4]
			d[0], d[1], d[2] = src[2], src[1], src[0]
			d[3] = 0xff
			if bpp >= 4 && reply.Depth == 32 {
				d[3] = src[3]
			}
		}
	}
	return img, nil
}
