package iiif

import (
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medialab/tesselle/cache"
	"github.com/medialab/tesselle/imaging"
	"github.com/medialab/tesselle/source"
)

func TestAcceptRanges(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/cover.png/0,0,256,256/256,/0/native.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if status := resp.StatusCode; status != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %#v want %#v", status, http.StatusOK)
	}

	if acceptRanges := resp.Header.Get("Accept-Ranges"); acceptRanges != "bytes" {
		t.Errorf("handler should accept bytes ranges: got %#v want \"bytes\"", acceptRanges)
	}
	if contentType := resp.Header.Get("Content-Type"); contentType != "image/jpeg" {
		t.Errorf("tiles are JPEG: got %#v", contentType)
	}
}

func TestContentDisposition(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()

	var tests = []struct {
		url    string
		header string
	}{
		{"/cover.png/0,0,256,256/256,/0/native.jpg", "inline; filename=cover.png_00256256_256_0_native.jpg"},
		{"/cover.png/0,0,256,256/256,/0/native.jpg?dl", "attachement; filename=cover.png_00256256_256_0_native.jpg"},
	}
	for _, test := range tests {
		resp, err := http.Get(ts.URL + test.url)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if contentDisposition := resp.Header.Get("Content-Disposition"); contentDisposition != test.header {
			t.Errorf("Content-Disposition should enable downloading, got: %#v want %#v", contentDisposition, test.header)
		}
	}
}

func TestOutputSizes(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()

	var tests = []struct {
		url    string
		width  int
		height int
	}{
		{"/cover.png/0,0,256,256/256,/0/native.jpg", 256, 256},
		{"/cover.png/256,256,256,144/256,/0/native.jpg", 256, 144},
		{"/cover.png/512,256,88,144/88,/0/native.jpg", 88, 144},
		{"/cover.png/0,0,512,400/256,/0/native.jpg", 256, 200},
		{"/cover.png/512,0,88,400/44,/0/native.jpg", 44, 200},
		{"/cover.png/0,0,600,400/480,/0/native.jpg", 480, 320},
	}

	for _, test := range tests {
		resp, err := http.Get(ts.URL + test.url)
		if err != nil {
			t.Fatal(err)
		}

		if status := resp.StatusCode; status != http.StatusOK {
			resp.Body.Close()
			t.Errorf("%s: wrong status code: got %v want %v", test.url, status, http.StatusOK)
			continue
		}

		config, err := jpeg.DecodeConfig(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Errorf("%s: not a JPEG: %v", test.url, err)
			continue
		}

		if config.Width != test.width || config.Height != test.height {
			t.Errorf("sizes do not match for %v: got %vx%v want %vx%v", test.url, config.Width, config.Height, test.width, test.height)
		}
	}
}

func TestFailing(t *testing.T) {
	ts := newServer(t)
	defer ts.Close()

	var tests = []struct {
		url    string
		status int
	}{
		{"/cover.png/0,0,256,256/256,/0/native.jpg", http.StatusOK},
		{"/cover.png/full/max/0/default.jpg", http.StatusBadRequest},
		{"/cover.png/0,0,256,256/256,256/0/native.jpg", http.StatusBadRequest},
		{"/cover.png/0,0,256,256/256,/90/native.jpg", http.StatusBadRequest},
		{"/cover.png/0,0,256,256/256,/0/default.png", http.StatusBadRequest},
		{"/cover.png/0,0,100,100/100,/0/native.jpg", http.StatusNotFound},
		{"/cover.png/768,0,-168,256/-168,/0/native.jpg", http.StatusNotFound},
		{"/missing.png/0,0,256,256/256,/0/native.jpg", http.StatusNotFound},
		{"/test.txt/0,0,256,256/256,/0/native.jpg", http.StatusNotImplemented},
		{"/test.txt/info.json", http.StatusNotImplemented},
		{"/missing.png/info.json", http.StatusNotFound},
	}

	for _, test := range tests {
		resp, err := http.Get(ts.URL + test.url)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if status := resp.StatusCode; status != test.status {
			t.Errorf("handler returned wrong status code: got %v want %v for %v", status, test.status, test.url)
		}
	}
}

func TestEmptyTiles(t *testing.T) {
	var tests = []struct {
		skip    bool
		message string
	}{
		{false, "has no pixels"},
		{true, "is not part of the pyramid"},
	}

	for _, test := range tests {
		c := newConfig(newFixtures(t))
		c.Tiles.SkipEmpty = test.skip
		images := &Images{
			Source:  source.NewDisk(c.Images.Root),
			Opener:  imaging.Draw{},
			Rasters: cache.Null{},
		}
		ts := httptest.NewServer(NewHandler(c, images))

		resp, err := http.Get(ts.URL + "/cover.png/768,0,-168,256/-168,/0/native.jpg")
		if err != nil {
			ts.Close()
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		ts.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("skip %v: got %v want %v", test.skip, resp.StatusCode, http.StatusNotFound)
		}
		if !strings.Contains(string(body), test.message) {
			t.Errorf("skip %v: got %q want %q", test.skip, body, test.message)
		}
	}
}
