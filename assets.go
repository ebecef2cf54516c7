package coastline

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

const defaultFetchTimeout = 30 * time.Second

// StampAsset is a loaded stamp image offered in a category.
type StampAsset struct {
	Src      string
	Category string
	Image    image.Image
}

// Size returns the natural pixel dimensions of the asset.
func (a StampAsset) Size() (w, h int) {
	return Texture{Src: a.Src, Image: a.Image}.Size()
}

type loadResult struct {
	src      string
	category string
	img      image.Image
	err      error
}

// AssetRegistry holds every image the editor paints with: the land and sea
// textures, brush textures and categorised stamp assets. Loads run in the
// background; their results are applied on the caller's goroutine by
// [AssetRegistry.Poll] or [AssetRegistry.Wait], so lookups need no locking.
// A load that completes after its asset was replaced still applies.
type AssetRegistry struct {
	client   *http.Client
	landSrc  string
	seaSrc   string
	images   map[string]image.Image
	stamps   []StampAsset
	failed   map[string]error
	pending  map[string]bool
	results  chan loadResult
	inflight int
}

// NewAssetRegistry creates an empty registry. A nil client uses one with a
// 30 second timeout.
func NewAssetRegistry(client *http.Client) *AssetRegistry {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &AssetRegistry{
		client:  client,
		images:  make(map[string]image.Image),
		failed:  make(map[string]error),
		pending: make(map[string]bool),
		results: make(chan loadResult, 64),
	}
}

// SetLand selects the land texture source used by the mask brush.
func (r *AssetRegistry) SetLand(src string) { r.landSrc = src }

// SetSea selects the sea texture source used for the background.
func (r *AssetRegistry) SetSea(src string) { r.seaSrc = src }

// LandSource returns the selected land texture source.
func (r *AssetRegistry) LandSource() string { return r.landSrc }

// SeaSource returns the selected sea texture source.
func (r *AssetRegistry) SeaSource() string { return r.seaSrc }

// LoadConfig starts loading every asset named by cfg and selects its land
// and sea textures.
func (r *AssetRegistry) LoadConfig(ctx context.Context, cfg Config) {
	if cfg.LandTexture != "" {
		r.SetLand(cfg.LandTexture)
		r.Load(ctx, cfg.LandTexture, "")
	}
	if cfg.SeaTexture != "" {
		r.SetSea(cfg.SeaTexture)
		r.Load(ctx, cfg.SeaTexture, "")
	}
	for _, src := range cfg.BrushTextures {
		r.Load(ctx, src, "")
	}
	cats := make([]string, 0, len(cfg.StampAssets))
	for c := range cfg.StampAssets {
		cats = append(cats, c)
	}
	slices.Sort(cats)
	for _, c := range cats {
		for _, src := range cfg.StampAssets[c] {
			r.Load(ctx, src, c)
		}
	}
}

// Load starts fetching and decoding src in the background. A non-empty
// category registers the image as a stamp asset. Sources may be http(s)
// URLs, data URLs or local file paths. Sources already loaded or in flight
// are ignored.
func (r *AssetRegistry) Load(ctx context.Context, src, category string) {
	if src == "" || r.pending[src] {
		return
	}
	if _, ok := r.images[src]; ok {
		if category != "" {
			r.addStamp(src, category, r.images[src])
		}
		return
	}
	r.pending[src] = true
	r.inflight++
	go func() {
		img, err := fetchImage(ctx, r.client, src)
		r.results <- loadResult{src: src, category: category, img: img, err: err}
	}()
}

// Pending returns the number of loads not yet applied.
func (r *AssetRegistry) Pending() int { return r.inflight }

// Poll applies completed loads without blocking and returns the sources
// that became available.
func (r *AssetRegistry) Poll() []string {
	var loaded []string
	for r.inflight > 0 {
		select {
		case res := <-r.results:
			if r.apply(res) {
				loaded = append(loaded, res.src)
			}
		default:
			return loaded
		}
	}
	return loaded
}

// Wait blocks until every in-flight load has been applied or ctx is done.
// It returns the sources that became available.
func (r *AssetRegistry) Wait(ctx context.Context) ([]string, error) {
	var loaded []string
	for r.inflight > 0 {
		select {
		case res := <-r.results:
			if r.apply(res) {
				loaded = append(loaded, res.src)
			}
		case <-ctx.Done():
			return loaded, ctx.Err()
		}
	}
	return loaded, nil
}

func (r *AssetRegistry) apply(res loadResult) bool {
	r.inflight--
	delete(r.pending, res.src)
	if res.err != nil {
		r.failed[res.src] = res.err
		Logger().Warn("asset load failed", "src", res.src, "err", res.err)
		return false
	}
	delete(r.failed, res.src)
	r.Insert(res.src, res.category, res.img)
	return true
}

// Insert registers an already decoded image. A non-empty category also
// offers it as a stamp asset.
func (r *AssetRegistry) Insert(src, category string, img image.Image) {
	if src == "" || img == nil {
		return
	}
	r.images[src] = img
	if category != "" {
		r.addStamp(src, category, img)
	}
}

func (r *AssetRegistry) addStamp(src, category string, img image.Image) {
	if slices.ContainsFunc(r.stamps, func(a StampAsset) bool { return a.Src == src }) {
		return
	}
	r.stamps = append(r.stamps, StampAsset{Src: src, Category: category, Image: img})
}

// LoadError returns the error of the last failed load of src, if any.
func (r *AssetRegistry) LoadError(src string) error { return r.failed[src] }

// Categories returns the stamp categories in the order they first appeared.
func (r *AssetRegistry) Categories() []string {
	var cats []string
	for _, a := range r.stamps {
		if !slices.Contains(cats, a.Category) {
			cats = append(cats, a.Category)
		}
	}
	return cats
}

// StampAssets returns the loaded stamp assets of a category, or of every
// category when category is empty.
func (r *AssetRegistry) StampAssets(category string) []StampAsset {
	var out []StampAsset
	for _, a := range r.stamps {
		if category == "" || a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

func (r *AssetRegistry) texture(src string) (Texture, bool) {
	img, ok := r.images[src]
	if !ok || src == "" {
		return Texture{Src: src}, false
	}
	return Texture{Src: src, Image: img}, true
}

// Land returns the selected land texture.
func (r *AssetRegistry) Land() (Texture, bool) { return r.texture(r.landSrc) }

// Sea returns the selected sea texture.
func (r *AssetRegistry) Sea() (Texture, bool) { return r.texture(r.seaSrc) }

// BrushTexture returns a paint brush texture.
func (r *AssetRegistry) BrushTexture(src string) (Texture, bool) { return r.texture(src) }

// StampImage returns a stamp image.
func (r *AssetRegistry) StampImage(src string) (Texture, bool) { return r.texture(src) }

// fetchImage reads and decodes an image from a URL, data URL or file path.
func fetchImage(ctx context.Context, client *http.Client, src string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch {
	case strings.HasPrefix(src, "data:"):
		img, err = DecodeDataURL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		img, err = fetchHTTP(ctx, client, src)
	default:
		img, err = decodeFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", src, ErrAssetLoad, err)
	}
	return img, nil
}

func fetchHTTP(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	return img, err
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	return img, err
}
