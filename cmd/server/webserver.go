package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/marben/grayscale_mandel/imgfile"
	"github.com/marben/grayscale_mandel/remote"
)

// webServer creates the http server exposing the websocket endpoint for workers,
// the rendering status and the finished image.
// ctx bounds the lifetime of worker connections.
func webServer(ctx context.Context, addr string, iws *imgWorkScheduler) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(ctx, iws),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://%s", addr)
	return srv
}

func newMux(ctx context.Context, iws *imgWorkScheduler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(ctx, iws))
	mux.HandleFunc("/status", statusHandler(iws))
	mux.HandleFunc("/image.png", imageHandler(iws))
	mux.HandleFunc("/tile", tileHandler(iws))
	return mux
}

// websocketHandler plugs each connected client into rendering as a worker
func websocketHandler(ctx context.Context, iws *imgWorkScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := remote.Accept(w, r)
		if err != nil {
			log.Println(err)
			return
		}
		log.Printf("got connection from: %s", r.RemoteAddr)

		renderer := remote.NewRendererClient(conn)
		defer renderer.Close()

		if err := iws.render(ctx, renderer); err != nil {
			log.Printf("err: render on client %q: %v", r.RemoteAddr, err)
			return
		}
		log.Printf("no more tiles for %q", r.RemoteAddr)
	}
}

type status struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	TotalTiles    int     `json:"totalTiles"`
	FinishedTiles int     `json:"finishedTiles"`
	Workers       int     `json:"workers"`
	Progress      float32 `json:"progress"`
}

func statusHandler(tp *imgWorkScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		width, height := tp.FullImageDimensions()
		st := status{
			Width:         width,
			Height:        height,
			TotalTiles:    tp.TotalTilesCount(),
			FinishedTiles: len(tp.FinishedTiles()),
			Workers:       tp.WorkersCount(),
			Progress:      tp.progress(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(st); err != nil {
			log.Printf("status: %v", err)
		}
	}
}

// imageHandler waits for the full render and sends it as png
func imageHandler(iws *imgWorkScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := iws.GetImage(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writePNG(w, img)
	}
}

// tileHandler sends one finished tile, given by its x0, y0, x1, y1 query parameters
func tileHandler(iws *imgWorkScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var coords [4]int
		for i, key := range []string{"x0", "y0", "x1", "y1"} {
			v, err := strconv.Atoi(r.URL.Query().Get(key))
			if err != nil {
				http.Error(w, fmt.Sprintf("bad %s: %v", key, err), http.StatusBadRequest)
				return
			}
			coords[i] = v
		}

		tile := image.Rect(coords[0], coords[1], coords[2], coords[3])
		img, err := iws.GetTileImg(tile)
		if errors.Is(err, errTileNotFinished) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writePNG(w, img)
	}
}

func writePNG(w http.ResponseWriter, img image.Image) {
	w.Header().Set("Content-Type", "image/png")
	if err := imgfile.Encode(w, img, imgfile.PNG); err != nil {
		log.Printf("png encode: %v", err)
	}
}
