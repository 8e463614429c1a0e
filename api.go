package mandel

import (
	"context"
	"image"
)

// ImgProvider hands out the fully rendered image.
// GetImage blocks until rendering is complete or ctx is done.
type ImgProvider interface {
	GetImage(ctx context.Context) (*image.Gray, error)
}

// Renderer renders one tile of an image with bounds b.
// The returned image's Rect equals tile.
type Renderer interface {
	RenderTile(ctx context.Context, vp Viewport, tile image.Rectangle, b Bounds) (*image.Gray, error)
}

// TileProvider reports progressive rendering state to viewers.
type TileProvider interface {
	FullImageDimensions() (width, height int)
	TotalTilesCount() int
	FinishedTiles() map[image.Rectangle]struct{}
	GetTileImg(tile image.Rectangle) (*image.Gray, error)
	WorkersCount() int
}
