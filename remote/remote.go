// Package remote carries tile rendering between the server and its workers.
// Each request and response is a JSON websocket message, tile pixels are zstd compressed.
package remote

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/grayscale_mandel"
)

// ReadLimit is the maximum websocket message size accepted by both sides.
const ReadLimit = 16 << 20

type tileRequest struct {
	ID         uint64
	Bounds     mandel.Bounds
	UpperLeft  [2]uint64 // math.Float64bits of re, im; JSON has no NaN or Inf
	LowerRight [2]uint64
	Tile       image.Rectangle
}

func (req tileRequest) viewport() mandel.Viewport {
	return mandel.Viewport{
		UpperLeft:  pointFromBits(req.UpperLeft),
		LowerRight: pointFromBits(req.LowerRight),
	}
}

func pointBits(c complex128) [2]uint64 {
	return [2]uint64{math.Float64bits(real(c)), math.Float64bits(imag(c))}
}

func pointFromBits(b [2]uint64) complex128 {
	return complex(math.Float64frombits(b[0]), math.Float64frombits(b[1]))
}

type tileResponse struct {
	ID   uint64
	Tile image.Rectangle
	Pix  []byte // zstd compressed, stride == Tile.Dx()
	Err  string `json:",omitempty"`
}

// Dial connects to a server websocket endpoint, e.g. "ws://localhost:8080/ws".
func Dial(ctx context.Context, url string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial %q: %w", url, err)
	}
	conn.SetReadLimit(ReadLimit)
	return conn, nil
}

// Accept upgrades an http request to a websocket connection.
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: tighten in prod
	})
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(ReadLimit)
	return conn, nil
}

// RendererClient implements mandel.Renderer by sending tiles to the worker on the other side of conn.
// Requests on one client are serialized.
type RendererClient struct {
	conn   *websocket.Conn
	m      sync.Mutex
	nextID uint64
}

var _ mandel.Renderer = (*RendererClient)(nil)

func NewRendererClient(conn *websocket.Conn) *RendererClient {
	return &RendererClient{conn: conn}
}

// RenderTile implements mandel.Renderer.
func (rc *RendererClient) RenderTile(ctx context.Context, vp mandel.Viewport, tile image.Rectangle, b mandel.Bounds) (*image.Gray, error) {
	rc.m.Lock()
	defer rc.m.Unlock()

	rc.nextID++
	req := tileRequest{
		ID:         rc.nextID,
		Bounds:     b,
		UpperLeft:  pointBits(vp.UpperLeft),
		LowerRight: pointBits(vp.LowerRight),
		Tile:       tile,
	}
	if err := wsjson.Write(ctx, rc.conn, req); err != nil {
		return nil, fmt.Errorf("send tile request: %w", err)
	}

	var resp tileResponse
	if err := wsjson.Read(ctx, rc.conn, &resp); err != nil {
		return nil, fmt.Errorf("read tile response: %w", err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response id %d does not match request id %d", resp.ID, req.ID)
	}
	if resp.Err != "" {
		return nil, fmt.Errorf("remote render of tile %s: %s", tile, resp.Err)
	}
	if want := tile.Intersect(b.Rect()); resp.Tile != want {
		return nil, fmt.Errorf("got tile %s, expected %s", resp.Tile, want)
	}

	pix, err := decompress(resp.Pix, resp.Tile.Dx()*resp.Tile.Dy())
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", resp.Tile, err)
	}

	return &image.Gray{Pix: pix, Stride: resp.Tile.Dx(), Rect: resp.Tile}, nil
}

// Close closes the underlying connection.
func (rc *RendererClient) Close() error {
	return rc.conn.Close(websocket.StatusNormalClosure, "")
}

// Serve renders tiles requested over conn with r, until the peer closes the connection or ctx is done.
// A normal close by the peer returns nil.
func Serve(ctx context.Context, conn *websocket.Conn, r mandel.Renderer) error {
	for {
		var req tileRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("read tile request: %w", err)
		}

		resp := tileResponse{ID: req.ID, Tile: req.Tile}
		img, err := r.RenderTile(ctx, req.viewport(), req.Tile, req.Bounds)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			resp.Err = err.Error()
		} else {
			resp.Tile = img.Rect
			resp.Pix = compress(packedPix(img))
		}

		if err := wsjson.Write(ctx, conn, resp); err != nil {
			return fmt.Errorf("send tile %s: %w", req.Tile, err)
		}
	}
}

// packedPix returns img's pixels without stride padding.
func packedPix(img *image.Gray) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w {
		return img.Pix[:w*h]
	}

	pix := make([]byte, 0, w*h)
	for y := range h {
		pix = append(pix, img.Pix[y*img.Stride:y*img.Stride+w]...)
	}
	return pix
}
